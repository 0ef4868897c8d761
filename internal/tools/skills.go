package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/picobot/picobot/internal/skills"
)

// SkillSource is the subset of skills.Registry the skill tools need.
type SkillSource interface {
	ListSkills() []skills.SkillInfo
	ReadSkill(name string) (string, error)
}

// ListSkillsTool returns the merged skill list as JSON.
type ListSkillsTool struct {
	src SkillSource
}

func NewListSkillsTool(src SkillSource) *ListSkillsTool {
	return &ListSkillsTool{src: src}
}

func (t *ListSkillsTool) Name() string { return string(ToolListSkills) }
func (t *ListSkillsTool) Description() string {
	return "List available skills with their name, description, source and manifest location."
}
func (t *ListSkillsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

func (t *ListSkillsTool) Execute(_ context.Context, _ map[string]any) *Result {
	list := t.src.ListSkills()
	if list == nil {
		list = []skills.SkillInfo{}
	}
	return OK(renderJSON(list))
}

// ReadSkillTool returns a skill's manifest text.
type ReadSkillTool struct {
	src SkillSource
}

func NewReadSkillTool(src SkillSource) *ReadSkillTool {
	return &ReadSkillTool{src: src}
}

func (t *ReadSkillTool) Name() string { return string(ToolReadSkill) }
func (t *ReadSkillTool) Description() string {
	return "Read the full SKILL.md of a skill by name before following its instructions."
}
func (t *ReadSkillTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"name": {
				"type": "string",
				"description": "Skill name as shown by list_skills"
			}
		},
		"required": ["name"]
	}`)
}

func (t *ReadSkillTool) Execute(_ context.Context, params map[string]any) *Result {
	name := stringParam(params, "name")
	text, err := t.src.ReadSkill(name)
	switch {
	case err == nil:
		return OK(text)
	case errors.Is(err, skills.ErrEmptyName):
		return Fail(KindValidation, "Error: Skill name cannot be empty.")
	case errors.Is(err, skills.ErrNotFound):
		return Fail(KindNotFound, "Error: Skill '%s' not found.", strings.TrimSpace(name))
	default:
		return Fail(KindInternal, "Error: %v", err)
	}
}
