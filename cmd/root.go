// Package cmd implements the picobot CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/picobot/picobot/internal/config"
	"github.com/picobot/picobot/internal/dependency"
	"github.com/picobot/picobot/internal/logger"
)

const version = "0.1.0"

// errReported signals a failure whose message was already printed.
var errReported = errors.New("failure already reported")

var (
	flagConfig    string
	flagWorkspace string
	flagDebug     bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:           "picobot",
	Short:         "picobot: a lightweight skills-first coding assistant",
	Long:          "picobot exposes workspace skills and a small set of sandboxed tools to a model-driven agent.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default ~/.picobot/config.yaml)")
	pf.StringVarP(&flagWorkspace, "workspace", "w", "", "Workspace root (default: current directory)")
	pf.BoolVar(&flagDebug, "debug", false, "Trace every tool call to stderr")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(toolCmd)
	rootCmd.AddCommand(cronCmd)
	rootCmd.AddCommand(promptCmd)
}

// loadConfig reads the config file, applies environment overrides and then
// command-line flags, and configures logging to match.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagWorkspace != "" {
		cfg.Workspace = flagWorkspace
	}
	if flagDebug {
		cfg.Debug = true
	}
	logger.Configure(bool(cfg.Debug), cfg.LogFormat)
	return cfg, nil
}

// buildContainer loads configuration and wires every service.
func buildContainer() (*dependency.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	c, err := dependency.New(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "wire services")
	}
	logger.L.WithField("workspace", c.Workspace().Root()).Debug("services ready")
	return c, nil
}
