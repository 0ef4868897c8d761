package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/picobot/picobot/internal/config"
	"github.com/picobot/picobot/internal/dependency"
	"github.com/picobot/picobot/internal/skills"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration, workspace skills and builtin skills",
	Args:  cobra.NoArgs,
	RunE:  runOnboard,
}

func runOnboard(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	if exists(cfgPath) {
		fmt.Fprintf(out, "Config already exists at %s (left unchanged)\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Created config at %s\n", cfgPath)
	}

	c, err := buildContainer()
	if err != nil {
		return err
	}

	for _, dir := range []string{c.Skills().BuiltinSkillsDir(), dependency.SkillsDir(c.Workspace())} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
		fmt.Fprintf(out, "✓ Skills directory %s\n", dir)
	}

	if err := createSampleSkill(out, dependency.SkillsDir(c.Workspace())); err != nil {
		return err
	}

	fmt.Fprintf(out, "\npicobot is ready in %s\n\n", c.Workspace().Root())
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Put skills in skills/<name>/SKILL.md")
	fmt.Fprintln(out, "  2. Set BRAVE_API_KEY to enable web_search")
	fmt.Fprintln(out, "  3. Check the setup: picobot doctor")
	return nil
}

const sampleSkill = `---
name: notes
description: Keep short project notes in NOTES.md at the workspace root
---
# Notes

When the user asks you to remember something about the project:

1. Read NOTES.md with read_file (create it with write_file if it is missing).
2. Append a dated bullet with edit_file.
3. Confirm what was recorded in one sentence.
`

func createSampleSkill(out io.Writer, skillsDir string) error {
	p := filepath.Join(skillsDir, "notes", skills.ManifestFile)
	if exists(p) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(p))
	}
	if err := os.WriteFile(p, []byte(sampleSkill), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", p)
	}
	fmt.Fprintln(out, "  Created skills/notes/SKILL.md")
	return nil
}
