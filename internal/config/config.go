// Package config defines the configuration schema for picobot.
//
// Values come from ~/.picobot/config.yaml first and are then overridden by
// environment variables. The resolved Config is passed explicitly to every
// component; nothing else in the module reads the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Toggle is a boolean that accepts the usual shell spellings
// (1/true/yes/on) when set from the environment or the config file.
type Toggle bool

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Toggle) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "yes", "on":
		*t = true
	default:
		*t = false
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Toggle) MarshalText() ([]byte, error) {
	if t {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// ---- Tool configs ----------------------------------------------------------

// WebSearchConfig configures the Brave web-search tool.
type WebSearchConfig struct {
	APIKey     string `yaml:"apiKey" env:"BRAVE_API_KEY"`
	MaxResults int    `yaml:"maxResults"`
}

// WebFetchConfig configures the web_fetch tool.
type WebFetchConfig struct {
	MaxChars int `yaml:"maxChars"`
}

// WebToolsConfig groups web-related tool settings.
type WebToolsConfig struct {
	Search WebSearchConfig `yaml:"search"`
	Fetch  WebFetchConfig  `yaml:"fetch"`
}

// ExecToolConfig configures the shell-exec tool.
type ExecToolConfig struct {
	Timeout int `yaml:"timeout" env:"PICOBOT_EXEC_TIMEOUT"` // seconds
}

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	Web  WebToolsConfig `yaml:"web"`
	Exec ExecToolConfig `yaml:"exec"`
}

func defaultToolsConfig() ToolsConfig {
	return ToolsConfig{
		Web: WebToolsConfig{
			Search: WebSearchConfig{MaxResults: 5},
			Fetch:  WebFetchConfig{MaxChars: 50000},
		},
		Exec: ExecToolConfig{Timeout: 60},
	}
}

// ---- Root config -----------------------------------------------------------

// Config is the root configuration object.
type Config struct {
	// Workspace is the sandbox root. Empty means the current directory.
	Workspace string `yaml:"workspace" env:"PICOBOT_WORKSPACE"`
	// BuiltinSkillsDir holds the skills shipped with picobot.
	BuiltinSkillsDir string      `yaml:"builtinSkillsDir" env:"PICOBOT_BUILTIN_SKILLS_DIR"`
	Debug            Toggle      `yaml:"debug" env:"PICOBOT_DEBUG"`
	LogFormat        string      `yaml:"logFormat" env:"PICOBOT_LOG_FORMAT"`
	Tools            ToolsConfig `yaml:"tools"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		LogFormat: "text",
		Tools:     defaultToolsConfig(),
	}
}

// WorkspacePath returns the expanded absolute workspace root.
func (c *Config) WorkspacePath() (string, error) {
	if c.Workspace == "" {
		return os.Getwd()
	}
	return filepath.Abs(ExpandHome(c.Workspace))
}

// BuiltinSkillsPath returns the builtin skills root, defaulting to
// ~/.picobot/skills.
func (c *Config) BuiltinSkillsPath() string {
	if c.BuiltinSkillsDir != "" {
		return ExpandHome(c.BuiltinSkillsDir)
	}
	return filepath.Join(DataDir(), "skills")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
