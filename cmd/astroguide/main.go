package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/astroguide/internal/logger"
	"github.com/mark3labs/astroguide/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "▄▀█ █▀ ▀█▀ █▀█ █▀█ █▀▀ █ █ █ █▀▄ █▀▀"
	logoText2 = "█▀█ ▄█  █  █▀▄ █▄█ █▄█ █▄█ █ █▄▀ ██▄"
)

// Version set via ldflags during build
var version = "dev"

var rootFlags struct {
	calcURL  string
	dataDir  string
	logLevel string
}

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "astroguide",
	Short: "Find the cities where your planets shine",
	// Bare invocation starts the wizard.
	RunE: runStart,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	line1 := theme.Gradient(logoText1, t.Primary, t.Tertiary)
	line2 := theme.Gradient(logoText2, t.Primary, t.Tertiary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

astroguide walks you through an astrocartography reading: enter your birth
details, choose a guide and a life focus, and get the three cities where the
ruling planet of that focus is strongest.

Sign in with 'astroguide login' to save readings and open them again later.`

	rootCmd.PersistentFlags().StringVar(&rootFlags.calcURL, "calc-url", "", "Astrocartography calculation service URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.dataDir, "data-dir", "", "Directory for local state (overrides config)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(readingsCmd)
	rootCmd.AddCommand(mcpCmd)
}
