package tools

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOutbox(t *testing.T, path string) []OutboxRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []OutboxRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec OutboxRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestMessage_AppendsJSONLines(t *testing.T) {
	ws := newWorkspace(t)
	tool := NewMessageTool(ws)
	tool.now = func() time.Time { return time.Date(2026, 10, 16, 8, 5, 9, 0, time.Local) }

	res := run(t, tool, map[string]any{"content": "build <done> & green"})
	require.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "Message recorded to "+OutboxPath(ws), res.Text)

	run(t, tool, map[string]any{"content": "second", "channel": "slack", "chat_id": "C42"})

	recs := readOutbox(t, OutboxPath(ws))
	require.Len(t, recs, 2)
	assert.Equal(t, OutboxRecord{
		Timestamp: "2026-10-16T08:05:09",
		Channel:   "local",
		ChatID:    "default",
		Content:   "build <done> & green",
	}, recs[0])
	assert.Equal(t, "slack", recs[1].Channel)
	assert.Equal(t, "C42", recs[1].ChatID)

	raw, err := os.ReadFile(OutboxPath(ws))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"build <done> & green"`)
	assert.Contains(t, string(raw), `{"timestamp":"2026-10-16T08:05:09","channel":"local","chat_id":"default"`)
}

func TestMessage_RequiresContent(t *testing.T) {
	res := run(t, NewMessageTool(newWorkspace(t)), map[string]any{})
	assert.Equal(t, KindValidation, res.Kind)
	assert.Equal(t, "Error: content is required", res.Text)
}
