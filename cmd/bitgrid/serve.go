package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/bitgrid/internal/orchestrator"
	"github.com/mark3labs/bitgrid/internal/widget"
	"github.com/spf13/cobra"
)

var serveFlags gridFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a grid without a UI, driven by MCP tools",
	Long: `Run a headless grid until interrupted.

MCP is enabled unless --mcp=false is given. With --publish every change is
published on NATS so 'bitgrid watch' can follow along.`,
	RunE: runServe,
}

func init() {
	serveFlags.register(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveFlags.load(cmd.Flags())
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("mcp") {
		cfg.MCP.Enabled = true
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Grid:       *cfg,
		ConfigPath: serveFlags.config,
		Headless:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		_ = orch.Stop()
		return fmt.Errorf("failed to start: %w", err)
	}

	out := cmd.OutOrStdout()
	var rows, cols int
	_ = orch.Exec(cmd.Context(), func(w *widget.Widget) { rows, cols = w.Rows(), w.Cols() })
	fmt.Fprintf(out, "Serving grid %q (%dx%d)\n", cfg.Name, rows, cols)
	if url := orch.MCPURL(); url != "" {
		fmt.Fprintf(out, "MCP:  %s\n", url)
	}
	if url := orch.NATSURL(); url != "" {
		fmt.Fprintf(out, "NATS: %s\n", url)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		fmt.Fprintln(out, "\nShutting down gracefully...")
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	orch.Wait()
	return orch.Stop()
}
