package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▄▄ █ ▀█▀ █▀▀ █▀█ █ █▀▄"
	logoText2 = "█▄█ █  █  █▄█ █▀▄ █ █▄▀"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bitgrid",
	Short: "Interactive grid of toggleable cells for the terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

bitgrid shows a matrix of boolean cells with row and column labels.
Click and drag to toggle a rectangle of cells, click to toggle one.
Changes can be published to NATS, watched from another terminal and
driven by MCP clients.`

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(setupCmd)
}
