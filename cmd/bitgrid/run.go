package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/bitgrid/internal/config"
	"github.com/mark3labs/bitgrid/internal/grid"
	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/orchestrator"
	"github.com/mark3labs/bitgrid/internal/state"
	"github.com/mark3labs/bitgrid/internal/widget"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// gridFlags are shared by run and serve. They override config values only
// when set on the command line.
type gridFlags struct {
	config      string
	name        string
	rows        int
	cols        int
	debounce    int
	publish     bool
	natsPort    int
	mcp         bool
	watchConfig bool
}

func (f *gridFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.config, "config", "c", "", "Config file layered over global and project config")
	fs.StringVarP(&f.name, "name", "n", "", "Grid name, used in change events and the NATS subject")
	fs.IntVarP(&f.rows, "rows", "r", 0, "Row count when no labels or data define it")
	fs.IntVarP(&f.cols, "cols", "k", 0, "Column count when no labels or data define it")
	fs.IntVar(&f.debounce, "debounce", 0, "Change notification window in ms (negative: every change)")
	fs.BoolVar(&f.publish, "publish", false, "Publish changes on an embedded NATS server")
	fs.IntVar(&f.natsPort, "nats-port", config.DefaultNATSPort, "NATS listen port (0: random, -1: in-process only)")
	fs.BoolVar(&f.mcp, "mcp", false, "Expose the grid as MCP tools over HTTP")
	fs.BoolVar(&f.watchConfig, "watch-config", false, "Reload the grid when config files change")
}

// load reads configuration and applies flags that were set explicitly.
func (f *gridFlags) load(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadFile(f.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if fs.Changed("name") {
		cfg.Name = f.name
	}
	if fs.Changed("rows") {
		cfg.Rows = f.rows
	}
	if fs.Changed("cols") {
		cfg.Cols = f.cols
	}
	if fs.Changed("debounce") {
		cfg.DebounceMs = f.debounce
	}
	if fs.Changed("publish") {
		cfg.NATS.Enabled = f.publish
	}
	if fs.Changed("nats-port") {
		cfg.NATS.Port = f.natsPort
	}
	if fs.Changed("mcp") {
		cfg.MCP.Enabled = f.mcp
	}
	if fs.Changed("watch-config") {
		cfg.WatchConfig = f.watchConfig
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}

var runFlags gridFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the grid in the terminal",
	Long: `Show the grid full-screen and edit it with the mouse.

Drag to toggle a rectangle, click to toggle a cell, esc cancels a drag.
When stdout is not a terminal the grid is printed as a table instead.`,
	RunE: runRun,
}

func init() {
	runFlags.register(runCmd.Flags())
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := runFlags.load(cmd.Flags())
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		w := widget.New(nil, cfg.ToWidgetOptions())
		fmt.Fprint(cmd.OutOrStdout(), grid.Format(w.Data(), w.RowLabels(), w.ColLabels()))
		return nil
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Grid:       *cfg,
		ConfigPath: runFlags.config,
		StateDir:   state.DefaultDir(),
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		_ = orch.Stop()
		return fmt.Errorf("failed to start: %w", err)
	}

	orch.Wait()
	return orch.Stop()
}
