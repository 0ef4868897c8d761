package tools

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocked(t *testing.T) {
	blocked := []string{
		"rm -rf /",
		"RM -RF ~",
		"rm -r build",
		"sudo rm -f important",
		"del /f C:\\file",
		"rmdir /s temp",
		"format c:",
		"echo ok; format d:",
		"sudo format /dev/sda1",
		"(format c:)",
		"mkfs.ext4 /dev/sda1",
		"diskpart",
		"dd if=/dev/zero of=/dev/sda",
		"cat x > /dev/sda",
		"shutdown -h now",
		"sudo reboot",
		"poweroff",
		":(){ :|:& };:",
	}
	for _, cmd := range blocked {
		assert.True(t, Blocked(cmd), cmd)
	}

	allowed := []string{
		"echo hello",
		"ls -la",
		"git log --format=%H",
		"rm file.txt",
		"go test ./...",
		"grep -r format .",
	}
	for _, cmd := range allowed {
		assert.False(t, Blocked(cmd), cmd)
	}
}

func TestExec_BlockedNeverRuns(t *testing.T) {
	ws := newWorkspace(t)
	marker := ws.Join("marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

	res := run(t, NewExecTool(ws, 5), map[string]any{"command": "rm -rf " + marker})
	assert.Equal(t, KindSafetyBlocked, res.Kind)
	assert.Equal(t, "Error: Command blocked by safety guard (dangerous pattern detected)", res.Text)
	assert.FileExists(t, marker)
}

func TestExec_Echo(t *testing.T) {
	ws := newWorkspace(t)
	res := run(t, NewExecTool(ws, 5), map[string]any{"command": "echo hello"})
	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "hello", res.Text)
}

func TestExec_RunsInWorkspace(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, os.Mkdir(ws.Join("sub"), 0o755))
	tool := NewExecTool(ws, 5)

	res := run(t, tool, map[string]any{"command": "pwd -P"})
	assert.Equal(t, ws.Root(), res.Text)

	res = run(t, tool, map[string]any{"command": "pwd -P", "working_dir": "sub"})
	assert.Equal(t, ws.Join("sub"), res.Text)

	res = run(t, tool, map[string]any{"command": "pwd", "working_dir": "missing"})
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestExec_StderrAndExitCode(t *testing.T) {
	ws := newWorkspace(t)
	res := run(t, NewExecTool(ws, 5), map[string]any{"command": "echo out; echo err 1>&2; exit 3"})
	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "out\n\nSTDERR:\nerr\n\nExit code: 3", res.Text)
}

func TestExec_KilledBySignal(t *testing.T) {
	ws := newWorkspace(t)
	res := run(t, NewExecTool(ws, 5), map[string]any{"command": "kill -9 $$"})
	assert.Equal(t, KindOK, res.Kind)
	assert.Equal(t, "Exit code: -9", res.Text)
}

func TestExec_NoOutput(t *testing.T) {
	ws := newWorkspace(t)
	res := run(t, NewExecTool(ws, 5), map[string]any{"command": "true"})
	assert.Equal(t, "(no output)", res.Text)
}

func TestExec_Timeout(t *testing.T) {
	ws := newWorkspace(t)
	res := run(t, NewExecTool(ws, 60), map[string]any{"command": "sleep 5", "timeout": float64(1)})
	assert.Equal(t, KindTimeout, res.Kind)
	assert.Equal(t, "Error: Command timed out after 1 seconds", res.Text)
}

func TestExec_Truncation(t *testing.T) {
	ws := newWorkspace(t)
	res := run(t, NewExecTool(ws, 10), map[string]any{"command": "head -c 15000 /dev/zero | tr '\\0' 'a'"})
	require.Equal(t, KindOK, res.Kind)

	assert.True(t, strings.HasPrefix(res.Text, strings.Repeat("a", maxExecOutput)))
	assert.True(t, strings.HasSuffix(res.Text, "\n... (truncated, 3000 more chars)"), res.Text[len(res.Text)-60:])
}

func TestExec_MissingCommand(t *testing.T) {
	ws := newWorkspace(t)
	res := run(t, NewExecTool(ws, 5), map[string]any{"command": "   "})
	assert.Equal(t, KindValidation, res.Kind)
	assert.Equal(t, "Error: command is required", res.Text)
}

func TestTruncateOutput_CountsCharacters(t *testing.T) {
	s := strings.Repeat("é", 12)
	assert.Equal(t, s, truncateOutput(s, 12))
	assert.Equal(t, strings.Repeat("é", 10)+"\n... (truncated, 2 more chars)", truncateOutput(s, 10))
}
