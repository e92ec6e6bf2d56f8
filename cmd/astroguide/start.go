package main

import (
	"github.com/mark3labs/astroguide/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the astrocartography wizard",
	Long: `Start the full-screen wizard.

Enter your birth details, choose an avatar and a life focus, and see the top
three cities for the planet that rules it. From the results you can save the
reading to your account (when signed in) or export it as markdown.`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	deps := wizard.Deps{
		Submitter: a.collector,
		Resolver:  a.resolver,
		ExportDir: a.cfg.ExportDir,
	}
	// Assigned only when set so a nil gateway stays a nil interface.
	if a.gateway != nil {
		deps.Accounts = a.gateway
	}

	return wizard.Run(ctx, deps)
}
