// Package dependency wires core picobot services using go.uber.org/dig.
package dependency

import (
	"go.uber.org/dig"

	"github.com/picobot/picobot/internal/agent"
	"github.com/picobot/picobot/internal/config"
	"github.com/picobot/picobot/internal/cron"
	"github.com/picobot/picobot/internal/skills"
	"github.com/picobot/picobot/internal/tools"
	"github.com/picobot/picobot/internal/workspace"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfg      *config.Config
	ws       *workspace.Resolver
	skills   *skills.Registry
	jobs     *cron.Store
	registry *tools.Registry
	prompt   *agent.PromptBuilder
}

func (c *Container) Config() *config.Config         { return c.cfg }
func (c *Container) Workspace() *workspace.Resolver { return c.ws }
func (c *Container) Skills() *skills.Registry       { return c.skills }
func (c *Container) CronStore() *cron.Store         { return c.jobs }
func (c *Container) Tools() *tools.Registry         { return c.registry }
func (c *Container) Prompt() *agent.PromptBuilder   { return c.prompt }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newWorkspace); err != nil {
		return nil, err
	}
	if err := d.Provide(newSkillRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newCronStore); err != nil {
		return nil, err
	}
	if err := d.Provide(newToolRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newPromptBuilder); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		ws *workspace.Resolver,
		sk *skills.Registry,
		jobs *cron.Store,
		reg *tools.Registry,
		pb *agent.PromptBuilder,
	) {
		result = &Container{
			cfg:      cfg,
			ws:       ws,
			skills:   sk,
			jobs:     jobs,
			registry: reg,
			prompt:   pb,
		}
	})
	return result, err
}

func newWorkspace(cfg *config.Config) (*workspace.Resolver, error) {
	root, err := cfg.WorkspacePath()
	if err != nil {
		return nil, err
	}
	return workspace.New(root)
}

// SkillsDir returns the workspace-local skills root.
func SkillsDir(ws *workspace.Resolver) string {
	return ws.Join("skills")
}

// CronStorePath returns <workspace>/.picobot/cron_jobs.json.
func CronStorePath(ws *workspace.Resolver) string {
	return ws.Join(cron.StoreDir, cron.StoreFile)
}

func newSkillRegistry(cfg *config.Config, ws *workspace.Resolver) *skills.Registry {
	return skills.NewRegistry(SkillsDir(ws), cfg.BuiltinSkillsPath())
}

func newCronStore(ws *workspace.Resolver) *cron.Store {
	return cron.NewStore(CronStorePath(ws))
}

func newToolRegistry(
	cfg *config.Config,
	ws *workspace.Resolver,
	sk *skills.Registry,
	jobs *cron.Store,
) (*tools.Registry, error) {
	return tools.NewRegistryBuilder().
		WithTool(tools.NewListSkillsTool(sk)).
		WithTool(tools.NewReadSkillTool(sk)).
		WithTool(tools.NewReadFileTool(ws)).
		WithTool(tools.NewWriteFileTool(ws)).
		WithTool(tools.NewEditFileTool(ws)).
		WithTool(tools.NewListDirTool(ws)).
		WithTool(tools.NewExecTool(ws, cfg.Tools.Exec.Timeout)).
		WithTool(tools.NewWebSearchTool(cfg.Tools.Web.Search.APIKey, cfg.Tools.Web.Search.MaxResults)).
		WithTool(tools.NewWebFetchTool(cfg.Tools.Web.Fetch.MaxChars)).
		WithTool(tools.NewMessageTool(ws)).
		WithTool(tools.NewCronTool(jobs)).
		Build()
}

// actionTools are advertised in the prompt; the skill tools are named
// separately in its rules.
var actionTools = []tools.Name{
	tools.ToolReadFile, tools.ToolWriteFile, tools.ToolEditFile, tools.ToolListDir,
	tools.ToolExec, tools.ToolWebSearch, tools.ToolWebFetch, tools.ToolMessage, tools.ToolCron,
}

func newPromptBuilder(ws *workspace.Resolver, sk *skills.Registry) *agent.PromptBuilder {
	names := make([]string, len(actionTools))
	for i, n := range actionTools {
		names[i] = string(n)
	}
	return agent.NewPromptBuilder(ws.Root(), sk, names)
}
