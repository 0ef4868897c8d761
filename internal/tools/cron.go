package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/picobot/picobot/internal/cron"
)

// JobStore is the subset of cron.Store the tool needs.
type JobStore interface {
	Add(message string, spec cron.ScheduleSpec) (cron.Job, error)
	List() []cron.Job
	Remove(id string) error
}

// CronTool lets the agent record, list and remove scheduled jobs.
// It only maintains descriptors; nothing here fires them.
type CronTool struct {
	store JobStore
}

// NewCronTool creates a CronTool backed by store.
func NewCronTool(store JobStore) *CronTool {
	return &CronTool{store: store}
}

func (t *CronTool) Name() string { return string(ToolCron) }

func (t *CronTool) Description() string {
	return "Schedule reminders and recurring tasks. Actions: add, list, remove."
}

func (t *CronTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"action": {
				"type": "string",
				"enum": ["add", "list", "remove"],
				"description": "Action to perform"
			},
			"message": {
				"type": "string",
				"description": "Reminder message (for add)"
			},
			"every_seconds": {
				"type": "integer",
				"description": "Interval in seconds (for recurring tasks)"
			},
			"cron_expr": {
				"type": "string",
				"description": "Cron expression like '0 9 * * *' (for scheduled tasks)"
			},
			"at": {
				"type": "string",
				"description": "ISO datetime for one-time execution (e.g. '2026-02-12T10:30:00')"
			},
			"job_id": {
				"type": "string",
				"description": "Job ID (for remove)"
			}
		},
		"required": ["action"]
	}`)
}

func (t *CronTool) Execute(_ context.Context, params map[string]any) *Result {
	action := stringParam(params, "action")
	switch action {
	case "add":
		return t.add(params)
	case "list":
		return t.list()
	case "remove":
		return t.remove(stringParam(params, "job_id"))
	default:
		return Fail(KindValidation, "Unknown action: %s", action)
	}
}

func (t *CronTool) add(params map[string]any) *Result {
	every, _ := intParam(params, "every_seconds", 0)
	job, err := t.store.Add(stringParam(params, "message"), cron.ScheduleSpec{
		EverySeconds: int64(every),
		CronExpr:     stringParam(params, "cron_expr"),
		At:           stringParam(params, "at"),
	})
	switch {
	case err == nil:
		return OK(fmt.Sprintf("Created job '%s' (id: %s)", job.Name, job.ID))
	case errors.Is(err, cron.ErrMessageRequired):
		return Fail(KindValidation, "Error: message is required for add")
	case errors.Is(err, cron.ErrScheduleRequired):
		return Fail(KindValidation, "Error: either every_seconds, cron_expr, or at is required")
	case errors.Is(err, cron.ErrInvalidSchedule):
		return Fail(KindValidation, "Error: %v", err)
	default:
		return Fail(KindInternal, "Error: %v", err)
	}
}

func (t *CronTool) list() *Result {
	jobs := t.store.List()
	if len(jobs) == 0 {
		return OK("No scheduled jobs.")
	}
	lines := make([]string, 0, len(jobs)+1)
	lines = append(lines, "Scheduled jobs:")
	for _, j := range jobs {
		lines = append(lines, fmt.Sprintf("- %s (id: %s, %s)", j.Name, j.ID, j.Schedule))
	}
	return OK(strings.Join(lines, "\n"))
}

func (t *CronTool) remove(id string) *Result {
	err := t.store.Remove(id)
	switch {
	case err == nil:
		return OK(fmt.Sprintf("Removed job %s", id))
	case errors.Is(err, cron.ErrJobIDRequired):
		return Fail(KindValidation, "Error: job_id is required for remove")
	case errors.Is(err, cron.ErrJobNotFound):
		return Fail(KindNotFound, "Job %s not found", id)
	default:
		return Fail(KindInternal, "Error: %v", err)
	}
}
