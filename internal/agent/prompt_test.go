package agent

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSummary string

func (f fixedSummary) BuildSummary() string { return string(f) }

func TestPromptBuilder_Build(t *testing.T) {
	ws := t.TempDir()
	pb := NewPromptBuilder(ws, fixedSummary("<skills>\n</skills>"), []string{"read_file", "exec"})
	now := time.Date(2026, 10, 16, 14, 7, 0, 0, time.Local)

	out := pb.Build(now)
	assert.Contains(t, out, "Current time: 2026-10-16 14:07")
	assert.Contains(t, out, "Workspace: "+ws)
	assert.Contains(t, out, "Runtime: "+runtime.GOOS+" "+runtime.GOARCH)
	assert.Contains(t, out, "`read_file`, `exec`.")
	assert.True(t, strings.HasSuffix(out, "Available skills:\n<skills>\n</skills>\n"))
	assert.Equal(t, out, pb.Build(now))
}

func TestPromptBuilder_BootstrapFiles(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, "AGENTS.md"), []byte("Use tabs.\n"), 0o644))

	out := NewPromptBuilder(ws, fixedSummary(""), nil).Build(time.Now())
	assert.Contains(t, out, "## AGENTS.md\n\nUse tabs.")
	assert.NotContains(t, out, "## USER.md")
}
