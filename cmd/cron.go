package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/picobot/picobot/internal/cron"
	"github.com/picobot/picobot/internal/shared/stringutils"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Manage recorded job descriptors",
	Long:  "Manage the job descriptors stored under <workspace>/.picobot. picobot records jobs but does not run them.",
}

func init() {
	cronCmd.AddCommand(cronListCmd)
	cronCmd.AddCommand(cronAddCmd)
	cronCmd.AddCommand(cronRemoveCmd)
}

// ---- list ------------------------------------------------------------------

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildContainer()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		jobs := c.CronStore().List()
		if len(jobs) == 0 {
			fmt.Fprintln(out, "No scheduled jobs.")
			return nil
		}

		now := time.Now()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSCHEDULE\tCREATED\tNEXT RUN")
		for _, j := range jobs {
			nextRun := "-"
			if t, ok := cron.NextRun(j.Schedule, now); ok {
				nextRun = t.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", j.ID, stringutils.Truncate(j.Name, 30), j.Schedule, j.CreatedAt, nextRun)
		}
		return tw.Flush()
	},
}

// ---- add -------------------------------------------------------------------

var (
	cronAddMsg   string
	cronAddEvery int64
	cronAddCron  string
	cronAddAt    string
)

var cronAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildContainer()
		if err != nil {
			return err
		}
		job, err := c.CronStore().Add(cronAddMsg, cron.ScheduleSpec{
			EverySeconds: cronAddEvery,
			CronExpr:     cronAddCron,
			At:           cronAddAt,
		})
		if errors.Is(err, cron.ErrScheduleRequired) {
			return errors.New("must specify --every, --cron, or --at")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added job '%s' (%s, %s)\n", job.Name, job.ID, job.Schedule)
		return nil
	},
}

func init() {
	cronAddCmd.Flags().StringVarP(&cronAddMsg, "message", "m", "", "Message to deliver (required)")
	cronAddCmd.Flags().Int64VarP(&cronAddEvery, "every", "e", 0, "Repeat every N seconds")
	cronAddCmd.Flags().StringVarP(&cronAddCron, "cron", "c", "", "Cron expression (e.g. '0 9 * * *')")
	cronAddCmd.Flags().StringVar(&cronAddAt, "at", "", "Run once at an ISO datetime (e.g. 2026-02-12T10:30:00)")

	_ = cronAddCmd.MarkFlagRequired("message")
}

// ---- remove ----------------------------------------------------------------

var cronRemoveCmd = &cobra.Command{
	Use:   "remove <job-id>",
	Short: "Remove a recorded job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildContainer()
		if err != nil {
			return err
		}
		id := strings.TrimSpace(args[0])
		err = c.CronStore().Remove(id)
		switch {
		case err == nil:
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed job %s\n", id)
			return nil
		case errors.Is(err, cron.ErrJobNotFound):
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s not found\n", id)
			return errReported
		default:
			return err
		}
	},
}
