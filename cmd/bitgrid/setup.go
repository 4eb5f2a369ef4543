package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/bitgrid/internal/config"
	"github.com/mark3labs/bitgrid/internal/widget"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
}

// Demo grid: who knows which language.
var (
	demoRowLabels = []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank"}
	demoColLabels = []string{"Bash", "Go", "JQ", "JS", "Lisp", "Lua", "Rust", "Swift", "Zig"}
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create bitgrid configuration file",
	Long: `Create a bitgrid configuration file with a labelled demo grid.

By default, creates a global config at ~/.config/bitgrid/bitgrid.yml.
Use --project to create a project-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := demoConfig()

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config written to: %s\n\n", targetPath)
	fmt.Fprintln(out, "Run 'bitgrid run' to get started.")
	return nil
}

func demoConfig() *config.Config {
	return &config.Config{
		Name:       "skills",
		RowLabels:  demoRowLabels,
		ColLabels:  demoColLabels,
		DebounceMs: widget.DefaultDebounceMs,
		LogLevel:   config.DefaultLogLevel,
		NATS:       config.NATSConfig{Port: config.DefaultNATSPort},
	}
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
