package tools

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/picobot/picobot/internal/logger"
	"github.com/picobot/picobot/internal/shared/stringutils"
)

// Name is the canonical name of a built-in tool.
type Name string

const (
	ToolReadFile   Name = "read_file"
	ToolWriteFile  Name = "write_file"
	ToolEditFile   Name = "edit_file"
	ToolListDir    Name = "list_dir"
	ToolExec       Name = "exec"
	ToolWebSearch  Name = "web_search"
	ToolWebFetch   Name = "web_fetch"
	ToolMessage    Name = "message"
	ToolCron       Name = "cron"
	ToolListSkills Name = "list_skills"
	ToolReadSkill  Name = "read_skill"
)

const tracePreviewLen = 240

// Registry holds a fixed set of named tools and dispatches calls to them.
type Registry struct {
	tools map[string]Tool
}

// RegistryBuilder collects tools before the registry is frozen. Tool names
// must be non-empty and unique; the first violation is reported by Build.
type RegistryBuilder struct {
	tools map[string]Tool
	err   error
}

// NewRegistryBuilder returns an empty RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]Tool)}
}

// WithTool adds tool and returns the builder for chaining.
func (b *RegistryBuilder) WithTool(tool Tool) *RegistryBuilder {
	if b.err != nil {
		return b
	}
	switch {
	case tool == nil:
		b.err = errors.New("nil tool")
	case tool.Name() == "":
		b.err = errors.New("tool with empty name")
	case b.tools[tool.Name()] != nil:
		b.err = errors.Errorf("duplicate tool %q", tool.Name())
	default:
		b.tools[tool.Name()] = tool
	}
	return b
}

// Build returns the Registry, or the first error seen by WithTool.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, errors.Wrap(b.err, "build tool registry")
	}
	tools := make(map[string]Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	return &Registry{tools: tools}, nil
}

// Get returns the tool with the given name, or nil.
func (r *Registry) Get(name string) Tool {
	return r.tools[name]
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for k := range r.tools {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Definitions returns all tool definitions in OpenAI function-calling format,
// sorted by name.
func (r *Registry) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.tools))
	for _, name := range r.Names() {
		t := r.tools[name]
		var params any
		if err := json.Unmarshal(t.Parameters(), &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  params,
			},
		})
	}
	return list
}

// Execute runs the named tool. Unknown names and nil params are handled here
// so a caller always gets a Result back.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) *Result {
	if params == nil {
		params = map[string]any{}
	}
	logger.Trace(ctx, "tool."+name+".input", params)

	t, ok := r.tools[name]
	var res *Result
	if !ok {
		res = Fail(KindValidation, "Error: Unknown tool: %s", name)
	} else {
		res = t.Execute(ctx, params)
		if res == nil {
			res = Fail(KindInternal, "Error: %s returned no result", name)
		}
	}

	logger.Trace(ctx, "tool."+name+".output", logrus.Fields{
		"kind":    string(res.Kind),
		"chars":   stringutils.Len(res.Text),
		"preview": stringutils.Head(res.Text, tracePreviewLen),
	})
	return res
}
