package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/picobot/picobot/internal/workspace"
)

// statTarget stats fp and maps absence to a not_found Result naming the
// caller's original path.
func statTarget(fp, path, what string) (os.FileInfo, *Result) {
	info, err := os.Stat(fp)
	if os.IsNotExist(err) {
		return nil, Fail(KindNotFound, "Error: %s not found: %s", what, path)
	}
	if err != nil {
		return nil, Fail(KindInternal, "Error: %v", err)
	}
	return info, nil
}

// ---------------------------------------------------------------------------
// ReadFileTool
// ---------------------------------------------------------------------------

// ReadFileTool reads a UTF-8 text file and returns its contents.
type ReadFileTool struct {
	ws *workspace.Resolver
}

func NewReadFileTool(ws *workspace.Resolver) *ReadFileTool {
	return &ReadFileTool{ws: ws}
}

func (t *ReadFileTool) Name() string        { return string(ToolReadFile) }
func (t *ReadFileTool) Description() string { return "Read the contents of a UTF-8 text file." }
func (t *ReadFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "The file path to read, relative to the workspace or absolute"
			}
		},
		"required": ["path"]
	}`)
}

func (t *ReadFileTool) Execute(_ context.Context, params map[string]any) *Result {
	path := stringParam(params, "path")
	if path == "" {
		return required("path")
	}
	fp := t.ws.Resolve(path)
	info, res := statTarget(fp, path, "File")
	if res != nil {
		return res
	}
	if !info.Mode().IsRegular() {
		return Fail(KindWrongKind, "Error: Not a file: %s", path)
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		return Fail(KindInternal, "Error reading file: %v", err)
	}
	if !utf8.Valid(data) {
		return Fail(KindInternal, "Error reading file: invalid UTF-8 content")
	}
	return OK(string(data))
}

// ---------------------------------------------------------------------------
// WriteFileTool
// ---------------------------------------------------------------------------

// WriteFileTool writes content to a file, creating parent directories as needed.
type WriteFileTool struct {
	ws *workspace.Resolver
}

func NewWriteFileTool(ws *workspace.Resolver) *WriteFileTool {
	return &WriteFileTool{ws: ws}
}

func (t *WriteFileTool) Name() string { return string(ToolWriteFile) }
func (t *WriteFileTool) Description() string {
	return "Write content to a file at the given path. Creates parent directories if needed."
}
func (t *WriteFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "The file path to write to"
			},
			"content": {
				"type": "string",
				"description": "The content to write"
			}
		},
		"required": ["path", "content"]
	}`)
}

func (t *WriteFileTool) Execute(_ context.Context, params map[string]any) *Result {
	path := stringParam(params, "path")
	if path == "" {
		return required("path")
	}
	content, ok := params["content"].(string)
	if !ok {
		return required("content")
	}
	fp := t.ws.Resolve(path)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return Fail(KindInternal, "Error writing file: %v", err)
	}
	if err := os.WriteFile(fp, []byte(content), 0o644); err != nil {
		return Fail(KindInternal, "Error writing file: %v", err)
	}
	return OK(fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), fp))
}

// ---------------------------------------------------------------------------
// EditFileTool
// ---------------------------------------------------------------------------

// EditFileTool replaces old_text with new_text only when old_text occurs
// exactly once. Zero or multiple matches leave the file untouched.
type EditFileTool struct {
	ws *workspace.Resolver
}

func NewEditFileTool(ws *workspace.Resolver) *EditFileTool {
	return &EditFileTool{ws: ws}
}

func (t *EditFileTool) Name() string { return string(ToolEditFile) }
func (t *EditFileTool) Description() string {
	return "Edit a file by replacing old_text with new_text. The old_text must appear exactly once in the file."
}
func (t *EditFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "The file path to edit"
			},
			"old_text": {
				"type": "string",
				"description": "The exact text to find and replace"
			},
			"new_text": {
				"type": "string",
				"description": "The text to replace with"
			}
		},
		"required": ["path", "old_text", "new_text"]
	}`)
}

func (t *EditFileTool) Execute(_ context.Context, params map[string]any) *Result {
	path := stringParam(params, "path")
	if path == "" {
		return required("path")
	}
	oldText := stringParam(params, "old_text")
	if oldText == "" {
		return required("old_text")
	}
	newText, ok := params["new_text"].(string)
	if !ok {
		return required("new_text")
	}

	fp := t.ws.Resolve(path)
	info, res := statTarget(fp, path, "File")
	if res != nil {
		return res
	}
	if !info.Mode().IsRegular() {
		return Fail(KindWrongKind, "Error: Not a file: %s", path)
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		return Fail(KindInternal, "Error editing file: %v", err)
	}
	content := string(data)

	switch count := strings.Count(content, oldText); {
	case count == 0:
		return Fail(KindNotFound, "Error: old_text not found in file. Make sure it matches exactly.")
	case count > 1:
		return Fail(KindAmbiguous, "Warning: old_text appears %d times. Please provide more context to make it unique.", count)
	}

	newContent := strings.Replace(content, oldText, newText, 1)
	if err := os.WriteFile(fp, []byte(newContent), info.Mode().Perm()); err != nil {
		return Fail(KindInternal, "Error editing file: %v", err)
	}
	return OK(fmt.Sprintf("Successfully edited %s", fp))
}

// ---------------------------------------------------------------------------
// ListDirTool
// ---------------------------------------------------------------------------

// ListDirTool lists the immediate children of a directory.
type ListDirTool struct {
	ws *workspace.Resolver
}

func NewListDirTool(ws *workspace.Resolver) *ListDirTool {
	return &ListDirTool{ws: ws}
}

func (t *ListDirTool) Name() string { return string(ToolListDir) }
func (t *ListDirTool) Description() string {
	return "List the contents of a directory. Directories come first, marked [D]; files are marked [F]."
}
func (t *ListDirTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"path": {
				"type": "string",
				"description": "The directory path to list"
			}
		},
		"required": ["path"]
	}`)
}

type dirEntry struct {
	name  string
	isDir bool
}

func (t *ListDirTool) Execute(_ context.Context, params map[string]any) *Result {
	path := stringParam(params, "path")
	if path == "" {
		return required("path")
	}
	dp := t.ws.Resolve(path)
	info, res := statTarget(dp, path, "Directory")
	if res != nil {
		return res
	}
	if !info.IsDir() {
		return Fail(KindWrongKind, "Error: Not a directory: %s", path)
	}
	raw, err := os.ReadDir(dp)
	if err != nil {
		return Fail(KindInternal, "Error listing directory: %v", err)
	}
	if len(raw) == 0 {
		return OK(fmt.Sprintf("Directory %s is empty", dp))
	}

	entries := make([]dirEntry, 0, len(raw))
	for _, e := range raw {
		isDir := e.IsDir()
		if e.Type()&os.ModeSymlink != 0 {
			// report symlinks by what they point at
			if fi, err := os.Stat(filepath.Join(dp, e.Name())); err == nil {
				isDir = fi.IsDir()
			}
		}
		entries = append(entries, dirEntry{name: e.Name(), isDir: isDir})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		return strings.ToLower(entries[i].name) < strings.ToLower(entries[j].name)
	})

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		prefix := "[F] "
		if e.isDir {
			prefix = "[D] "
		}
		lines = append(lines, prefix+e.name)
	}
	return OK(strings.Join(lines, "\n"))
}
