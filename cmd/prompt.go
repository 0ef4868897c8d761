package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system prompt the agent would receive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildContainer()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), c.Prompt().Build(time.Now()))
		return nil
	},
}
