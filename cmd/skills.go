package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/picobot/picobot/internal/shared/stringutils"
	"github.com/picobot/picobot/internal/skills"
)

var skillsJSON bool

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List available skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildContainer()
		if err != nil {
			return err
		}
		list := c.Skills().ListSkills()
		out := cmd.OutOrStdout()

		if skillsJSON {
			if list == nil {
				list = []skills.SkillInfo{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}

		if len(list) == 0 {
			fmt.Fprintln(out, "No skills found.")
			fmt.Fprintf(out, "  workspace: %s\n  builtin:   %s\n", c.Skills().WorkspaceSkillsDir(), c.Skills().BuiltinSkillsDir())
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSOURCE\tDESCRIPTION")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Source, stringutils.Truncate(s.Description, 60))
		}
		return tw.Flush()
	},
}

var skillsShowBody bool

var skillsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a skill's SKILL.md",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildContainer()
		if err != nil {
			return err
		}
		text, err := c.Skills().ReadSkill(args[0])
		if errors.Is(err, skills.ErrNotFound) {
			return errors.Errorf("skill %q not found", args[0])
		}
		if err != nil {
			return err
		}
		if skillsShowBody {
			text = skills.Body(text)
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	skillsCmd.Flags().BoolVar(&skillsJSON, "json", false, "Print the list as JSON")
	skillsShowCmd.Flags().BoolVar(&skillsShowBody, "body", false, "Omit the front matter")
	skillsCmd.AddCommand(skillsShowCmd)
}
