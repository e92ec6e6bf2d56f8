package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/astroguide/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project      bool
	force        bool
	calcURL      string
	geocodeToken string
	backendURL   string
	backendKey   string
	store        string
	databaseDSN  string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create astroguide configuration file",
	Long: `Create an astroguide configuration file with sensible defaults.

By default, creates a global config at ~/.config/astroguide/astroguide.yml.
Use --project to create a project-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVar(&setupFlags.calcURL, "calc-url", "", "Calculation service URL")
	setupCmd.Flags().StringVar(&setupFlags.geocodeToken, "geocode-token", "", "Mapbox access token")
	setupCmd.Flags().StringVar(&setupFlags.backendURL, "backend-url", "", "Account backend URL (enables sign-in)")
	setupCmd.Flags().StringVar(&setupFlags.backendKey, "backend-key", "", "Account backend API key")
	setupCmd.Flags().StringVar(&setupFlags.store, "readings-store", config.StoreBackend, "Where readings are stored: backend or postgres")
	setupCmd.Flags().StringVar(&setupFlags.databaseDSN, "database-dsn", "", "PostgreSQL DSN when --readings-store=postgres")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Default()
	if setupFlags.calcURL != "" {
		cfg.CalcURL = setupFlags.calcURL
	}
	cfg.GeocodeToken = setupFlags.geocodeToken
	cfg.BackendURL = setupFlags.backendURL
	cfg.BackendKey = setupFlags.backendKey
	cfg.ReadingsStore = setupFlags.store
	cfg.DatabaseDSN = setupFlags.databaseDSN

	if err := cfg.Validate(); err != nil {
		return err
	}

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
	if cfg.GeocodeToken == "" {
		fmt.Fprintln(out, "No geocode token set: add geocode_token before submitting birth details.")
	}
	fmt.Fprintln(out, "Run 'astroguide start' to get started.")
	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
