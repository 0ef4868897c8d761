package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/picobot/picobot/internal/shared/stringutils"
	"github.com/picobot/picobot/internal/workspace"
)

const (
	defaultExecTimeout = 60
	maxExecOutput      = 12000
	execWaitDelay      = 2 * time.Second
)

// denyPatterns are matched against the lower-cased command. They catch the
// obvious destructive spellings; they are not a sandbox.
var denyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\brm\s+-[rf]{1,2}\b`),               // rm -r, rm -rf, rm -fr
	regexp.MustCompile(`\bdel\s+/[fq]\b`),                   // del /f, del /q
	regexp.MustCompile(`\brmdir\s+/s\b`),                    // rmdir /s
	regexp.MustCompile(`(?:^|[;&|(]\s*|\bsudo\s+)format\b`), // format as a command
	regexp.MustCompile(`\b(mkfs|diskpart)\b`),               // disk ops
	regexp.MustCompile(`\bdd\s+if=`),                        // dd
	regexp.MustCompile(`>\s*/dev/sd`),                       // write to disk
	regexp.MustCompile(`\b(shutdown|reboot|poweroff)\b`),    // power control
	regexp.MustCompile(`:\(\)\s*\{.*\};\s*:`),               // fork bomb
}

// ExecTool runs shell commands inside the workspace with a deny-list guard
// and a wall-clock timeout.
type ExecTool struct {
	ws      *workspace.Resolver
	timeout int // seconds
	shell   string
}

// NewExecTool creates an ExecTool. timeoutSeconds <= 0 means 60.
func NewExecTool(ws *workspace.Resolver, timeoutSeconds int) *ExecTool {
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultExecTimeout
	}
	return &ExecTool{ws: ws, timeout: timeoutSeconds, shell: "sh"}
}

func (e *ExecTool) Name() string { return string(ToolExec) }
func (e *ExecTool) Description() string {
	return "Execute a shell command in the workspace and return its output. Use with caution."
}
func (e *ExecTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"command": {
				"type": "string",
				"description": "The shell command to execute"
			},
			"working_dir": {
				"type": "string",
				"description": "Optional working directory, relative to the workspace"
			},
			"timeout": {
				"type": "integer",
				"description": "Timeout in seconds",
				"minimum": 1
			}
		},
		"required": ["command"]
	}`)
}

func (e *ExecTool) Execute(ctx context.Context, params map[string]any) *Result {
	command := strings.TrimSpace(stringParam(params, "command"))
	if command == "" {
		return required("command")
	}
	if Blocked(command) {
		return Fail(KindSafetyBlocked, "Error: Command blocked by safety guard (dangerous pattern detected)")
	}

	cwd := e.ws.Root()
	if wd := stringParam(params, "working_dir"); wd != "" {
		cwd = e.ws.Resolve(wd)
		info, err := os.Stat(cwd)
		if err != nil {
			return Fail(KindNotFound, "Error: Working directory not found: %s", wd)
		}
		if !info.IsDir() {
			return Fail(KindWrongKind, "Error: Not a directory: %s", wd)
		}
	}

	timeout := e.timeout
	if n, ok := intParam(params, "timeout", 0); ok && n > 0 {
		timeout = n
	}

	cmdCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, e.shell, "-c", command)
	cmd.Dir = cwd
	cmd.WaitDelay = execWaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return Fail(KindTimeout, "Error: Command timed out after %d seconds", timeout)
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return Fail(KindInternal, "Error executing command: %v", runErr)
	}

	var parts []string
	if out := stdout.String(); out != "" {
		parts = append(parts, out)
	}
	if errOut := stderr.String(); errOut != "" {
		parts = append(parts, "STDERR:\n"+errOut)
	}
	if exitErr != nil {
		if code := exitCode(exitErr); code != 0 {
			parts = append(parts, fmt.Sprintf("Exit code: %d", code))
		}
	}

	result := strings.TrimSpace(strings.Join(parts, "\n"))
	if result == "" {
		result = "(no output)"
	}
	return OK(truncateOutput(result, maxExecOutput))
}

// exitCode reports a signal-terminated process as the negated signal number.
func exitCode(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return err.ExitCode()
}

// Blocked reports whether command matches any deny pattern.
func Blocked(command string) bool {
	lower := strings.ToLower(strings.TrimSpace(command))
	for _, p := range denyPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// truncateOutput cuts s to max characters and appends a marker with the
// number of characters dropped.
func truncateOutput(s string, max int) string {
	n := stringutils.Len(s)
	if n <= max {
		return s
	}
	return stringutils.Head(s, max) + fmt.Sprintf("\n... (truncated, %d more chars)", n-max)
}
