package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/picobot/picobot/internal/config"
	"github.com/picobot/picobot/internal/tools"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Show picobot configuration and environment status",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	fmt.Fprintf(out, "picobot %s\n\n", version)
	fmt.Fprintf(out, "Config:          %s %s\n", cfgPath, mark(exists(cfgPath)))

	c, err := buildContainer()
	if err != nil {
		fmt.Fprintf(out, "  (could not load config: %v)\n", err)
		return errReported
	}
	cfg := c.Config()
	sk := c.Skills()

	fmt.Fprintf(out, "Workspace:       %s %s\n", c.Workspace().Root(), mark(exists(c.Workspace().Root())))
	fmt.Fprintf(out, "Workspace skills: %s %s\n", sk.WorkspaceSkillsDir(), mark(exists(sk.WorkspaceSkillsDir())))
	fmt.Fprintf(out, "Builtin skills:  %s %s\n", sk.BuiltinSkillsDir(), mark(exists(sk.BuiltinSkillsDir())))
	fmt.Fprintf(out, "Skills found:    %d\n", len(sk.ListSkills()))
	fmt.Fprintf(out, "Cron store:      %s (%d jobs)\n", c.CronStore().Path(), len(c.CronStore().List()))
	fmt.Fprintf(out, "Outbox:          %s\n\n", tools.OutboxPath(c.Workspace()))

	writeToolStatus(out, cfg)
	return nil
}

func writeToolStatus(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Tools:")
	if cfg.Tools.Web.Search.APIKey != "" {
		fmt.Fprintf(out, "  %-12s ✓ BRAVE_API_KEY set\n", tools.ToolWebSearch)
	} else {
		fmt.Fprintf(out, "  %-12s (BRAVE_API_KEY not set)\n", tools.ToolWebSearch)
	}
	if sh, err := exec.LookPath("sh"); err == nil {
		fmt.Fprintf(out, "  %-12s ✓ %s, timeout %ds\n", tools.ToolExec, sh, cfg.Tools.Exec.Timeout)
	} else {
		fmt.Fprintf(out, "  %-12s ✗ sh not found on PATH\n", tools.ToolExec)
	}
	fmt.Fprintf(out, "  %-12s max %d chars\n", tools.ToolWebFetch, cfg.Tools.Web.Fetch.MaxChars)
	fmt.Fprintf(out, "  Debug tracing: %v\n", bool(cfg.Debug))
}
