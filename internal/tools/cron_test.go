package tools

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picobot/picobot/internal/cron"
)

func newCronTool(t *testing.T) (*CronTool, *cron.Store) {
	t.Helper()
	store := cron.NewStore(filepath.Join(t.TempDir(), cron.StoreDir, cron.StoreFile))
	return NewCronTool(store), store
}

var createdRE = regexp.MustCompile(`^Created job 'm' \(id: ([0-9a-f]{8})\)$`)

func TestCronTool_Lifecycle(t *testing.T) {
	tool, _ := newCronTool(t)

	res := run(t, tool, map[string]any{"action": "add", "message": "m", "every_seconds": float64(30)})
	require.Equal(t, KindOK, res.Kind, res.Text)
	m := createdRE.FindStringSubmatch(res.Text)
	require.Len(t, m, 2, res.Text)
	id := m[1]

	res = run(t, tool, map[string]any{"action": "list"})
	assert.Equal(t, "Scheduled jobs:\n- m (id: "+id+", every:30s)", res.Text)

	res = run(t, tool, map[string]any{"action": "remove", "job_id": id})
	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "Removed job "+id, res.Text)

	res = run(t, tool, map[string]any{"action": "list"})
	assert.Equal(t, "No scheduled jobs.", res.Text)
}

func TestCronTool_RemoveUnknownKeepsStore(t *testing.T) {
	tool, store := newCronTool(t)
	run(t, tool, map[string]any{"action": "add", "message": "keep", "cron_expr": "0 9 * * 1-5"})
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	res := run(t, tool, map[string]any{"action": "remove", "job_id": "00000000"})
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, "Job 00000000 not found", res.Text)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCronTool_Errors(t *testing.T) {
	tool, _ := newCronTool(t)

	tests := []struct {
		name   string
		params map[string]any
		kind   Kind
		text   string
	}{
		{"add without message", map[string]any{"action": "add", "every_seconds": float64(5)}, KindValidation, "Error: message is required for add"},
		{"add without schedule", map[string]any{"action": "add", "message": "m"}, KindValidation, "Error: either every_seconds, cron_expr, or at is required"},
		{"remove without id", map[string]any{"action": "remove"}, KindValidation, "Error: job_id is required for remove"},
		{"unknown action", map[string]any{"action": "pause"}, KindValidation, "Unknown action: pause"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tool, tt.params)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.text, res.Text)
		})
	}

	res := run(t, tool, map[string]any{"action": "add", "message": "m", "cron_expr": "every tuesday"})
	assert.Equal(t, KindValidation, res.Kind)
	assert.Contains(t, res.Text, "invalid schedule")
}

func TestCronTool_PriorityAndAt(t *testing.T) {
	tool, store := newCronTool(t)
	run(t, tool, map[string]any{"action": "add", "message": "both", "cron_expr": "*/10 * * * *", "at": "2030-05-01T10:00:00"})
	run(t, tool, map[string]any{"action": "add", "message": "once", "at": "2030-05-01T10:00:00"})

	jobs := store.List()
	require.Len(t, jobs, 2)
	assert.Equal(t, "cron:*/10 * * * *", jobs[0].Schedule)
	assert.Equal(t, "at:2030-05-01T10:00:00", jobs[1].Schedule)
}
