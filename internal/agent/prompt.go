// Package agent assembles the system prompt handed to the model runtime.
// The runtime itself lives outside this module.
package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// bootstrapFiles are optional workspace notes appended to the prompt.
var bootstrapFiles = []string{"AGENTS.md", "USER.md", "TOOLS.md"}

// SkillSummarizer renders the skill catalogue.
type SkillSummarizer interface {
	BuildSummary() string
}

// PromptBuilder renders the system prompt for one session.
type PromptBuilder struct {
	workspace string
	skills    SkillSummarizer
	tools     []string
}

// NewPromptBuilder creates a PromptBuilder. tools lists the callable tool
// names in the order they should be advertised.
func NewPromptBuilder(workspace string, skills SkillSummarizer, tools []string) *PromptBuilder {
	return &PromptBuilder{workspace: workspace, skills: skills, tools: tools}
}

// Build renders the prompt as of now.
func (pb *PromptBuilder) Build(now time.Time) string {
	parts := []string{pb.identity(now)}
	if bootstrap := pb.loadBootstrapFiles(); bootstrap != "" {
		parts = append(parts, bootstrap)
	}
	parts = append(parts, "Available skills:\n"+pb.skills.BuildSummary())
	return strings.Join(parts, "\n\n") + "\n"
}

func (pb *PromptBuilder) identity(now time.Time) string {
	quoted := make([]string, len(pb.tools))
	for i, name := range pb.tools {
		quoted[i] = "`" + name + "`"
	}
	runtimeStr := fmt.Sprintf("%s %s / Go %s", runtime.GOOS, runtime.GOARCH, runtime.Version())

	return fmt.Sprintf(`You are picobot, a lightweight skills-first coding assistant.

Current time: %s
Runtime: %s
Workspace: %s

Your job:
1. Solve user tasks directly.
2. Use local skills when relevant.
3. Keep responses concise and actionable.

Rules:
- Only local, file-based skill loading is supported.
- Before using a skill deeply, call `+"`list_skills`"+` then `+"`read_skill(name)`"+` for the specific skill.
- Do not invent skill content. Always read SKILL.md first.
- Prefer these built-in tools for actions: %s.`,
		now.Format("2006-01-02 15:04"),
		runtimeStr,
		pb.workspace,
		strings.Join(quoted, ", "),
	)
}

// loadBootstrapFiles reads whichever bootstrap files exist in the workspace.
func (pb *PromptBuilder) loadBootstrapFiles() string {
	var parts []string
	for _, name := range bootstrapFiles {
		data, err := os.ReadFile(filepath.Join(pb.workspace, name))
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("## %s\n\n%s", name, strings.TrimSpace(string(data))))
	}
	return strings.Join(parts, "\n\n")
}
