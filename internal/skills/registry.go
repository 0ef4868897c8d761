// Package skills discovers SKILL.md bundles from the workspace and builtin
// skill roots and renders them for the agent's system prompt.
package skills

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/picobot/picobot/internal/logger"
)

// ManifestFile is the file that marks a directory as a skill.
const ManifestFile = "SKILL.md"

// Source records which root a skill was discovered in.
type Source string

const (
	SourceWorkspace Source = "workspace"
	SourceBuiltin   Source = "builtin"
)

var (
	// ErrEmptyName is returned by ReadSkill for a blank name.
	ErrEmptyName = errors.New("skill name cannot be empty")
	// ErrNotFound is returned by ReadSkill when no skill matches.
	ErrNotFound = errors.New("skill not found")
)

// SkillInfo holds metadata about a single skill.
type SkillInfo struct {
	Name        string `json:"name"`        // directory name
	Description string `json:"description"` // front matter description, or Name
	Source      Source `json:"source"`
	Path        string `json:"location"` // absolute path to SKILL.md
}

// Registry scans the workspace and builtin skills directories. Nothing is
// cached: every call reflects the filesystem at that moment.
type Registry struct {
	workspaceSkills string
	builtinSkills   string
}

// NewRegistry creates a Registry over the two roots. Either may be missing.
func NewRegistry(workspaceSkillsDir, builtinSkillsDir string) *Registry {
	return &Registry{
		workspaceSkills: absOrSelf(workspaceSkillsDir),
		builtinSkills:   absOrSelf(builtinSkillsDir),
	}
}

// WorkspaceSkillsDir returns the workspace-local skills root.
func (r *Registry) WorkspaceSkillsDir() string { return r.workspaceSkills }

// BuiltinSkillsDir returns the builtin skills root.
func (r *Registry) BuiltinSkillsDir() string { return r.builtinSkills }

// ListSkills returns workspace and builtin skills merged by name, workspace
// entries shadowing builtin ones, sorted case-insensitively by name.
func (r *Registry) ListSkills() []SkillInfo {
	return r.listSkills(context.Background())
}

func (r *Registry) listSkills(ctx context.Context) []SkillInfo {
	discovered := map[string]SkillInfo{}

	for _, s := range r.scan(ctx, r.workspaceSkills, SourceWorkspace) {
		discovered[s.Name] = s
	}
	for _, s := range r.scan(ctx, r.builtinSkills, SourceBuiltin) {
		if _, ok := discovered[s.Name]; !ok {
			discovered[s.Name] = s
		}
	}

	items := make([]SkillInfo, 0, len(discovered))
	for _, s := range discovered {
		items = append(items, s)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].Name < items[j].Name
	})

	names := make([]string, len(items))
	for i, s := range items {
		names[i] = s.Name
	}
	logger.Trace(ctx, "skills.list", map[string]any{
		"workspace_skills_dir": r.workspaceSkills,
		"builtin_skills_dir":   r.builtinSkills,
		"count":                len(items),
		"names":                names,
	})
	return items
}

// ReadSkill returns the full SKILL.md content for name (exact match).
func (r *Registry) ReadSkill(name string) (string, error) {
	ctx := context.Background()
	key := strings.TrimSpace(name)
	if key == "" {
		return "", ErrEmptyName
	}

	for _, s := range r.listSkills(ctx) {
		if s.Name != key {
			continue
		}
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return "", errors.Wrapf(err, "read skill %q", key)
		}
		logger.Trace(ctx, "skills.read", map[string]any{
			"name": key, "source": string(s.Source), "path": s.Path,
		})
		return string(data), nil
	}

	logger.Trace(ctx, "skills.read.miss", map[string]any{"name": key})
	return "", errors.Wrapf(ErrNotFound, "skill %q", key)
}

// BuildSummary renders every skill as an XML-like block for the system
// prompt. Output order matches ListSkills.
func (r *Registry) BuildSummary() string {
	var sb strings.Builder
	sb.WriteString("<skills>\n")
	for _, s := range r.ListSkills() {
		sb.WriteString("  <skill>\n")
		fmt.Fprintf(&sb, "    <name>%s</name>\n", xmlEscape(s.Name))
		fmt.Fprintf(&sb, "    <description>%s</description>\n", xmlEscape(s.Description))
		fmt.Fprintf(&sb, "    <source>%s</source>\n", s.Source)
		fmt.Fprintf(&sb, "    <location>%s</location>\n", xmlEscape(s.Path))
		sb.WriteString("  </skill>\n")
	}
	sb.WriteString("</skills>")
	return sb.String()
}

// scan lists immediate subdirectories of dir that contain a manifest.
// A missing or non-directory root yields nothing.
func (r *Registry) scan(ctx context.Context, dir string, source Source) []SkillInfo {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("dir", dir).Warn("skills: cannot read skills directory")
		return nil
	}

	var out []SkillInfo
	for _, e := range entries {
		child := filepath.Join(dir, e.Name())
		// Stat follows symlinked skill directories.
		ci, err := os.Stat(child)
		if err != nil || !ci.IsDir() {
			continue
		}
		manifest := filepath.Join(child, ManifestFile)
		mi, err := os.Stat(manifest)
		if err != nil || !mi.Mode().IsRegular() {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(manifest); err == nil {
			manifest = resolved
		}

		desc := ""
		if data, err := os.ReadFile(manifest); err == nil {
			desc = extractDescription(string(data))
		} else {
			logger.G(ctx).WithError(err).WithField("path", manifest).Warn("skills: unreadable manifest, using fallback description")
		}
		if desc == "" {
			desc = e.Name()
		}

		out = append(out, SkillInfo{
			Name:        e.Name(),
			Description: desc,
			Source:      source,
			Path:        manifest,
		})
	}
	return out
}

func absOrSelf(dir string) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// xmlEscape escapes &, <, > for XML text use.
func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
