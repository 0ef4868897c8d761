package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/picobot/picobot/internal/logger"
)

var toolArgs string

var toolCmd = &cobra.Command{
	Use:   "tool <name>",
	Short: "Invoke a tool once and print its result",
	Long: `Invoke a tool the way the agent runtime would.

  picobot tool read_file --args '{"path": "README.md"}'
  picobot tool cron --args '{"action": "list"}'

The exit status is 1 when the tool reports an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{}
		if toolArgs != "" {
			if err := json.Unmarshal([]byte(toolArgs), &params); err != nil {
				return errors.Wrap(err, "--args must be a JSON object")
			}
		}

		c, err := buildContainer()
		if err != nil {
			return err
		}
		ctx := logger.WithLogger(context.Background(), logger.L.WithField("tool", args[0]))
		res := c.Tools().Execute(ctx, args[0], params)

		fmt.Fprintln(cmd.OutOrStdout(), res.String())
		if res.IsError() {
			return errReported
		}
		return nil
	},
}

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildContainer()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, name := range c.Tools().Names() {
			fmt.Fprintf(tw, "%s\t%s\n", name, c.Tools().Get(name).Description())
		}
		return tw.Flush()
	},
}

var toolSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print tool definitions in function-calling format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildContainer()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(c.Tools().Definitions())
	},
}

func init() {
	toolCmd.Flags().StringVarP(&toolArgs, "args", "a", "", "Tool arguments as a JSON object")
	toolCmd.AddCommand(toolListCmd)
	toolCmd.AddCommand(toolSchemaCmd)
}
