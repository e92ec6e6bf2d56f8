package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mark3labs/astroguide/internal/account"
	"github.com/mark3labs/astroguide/internal/wizard"
	"github.com/spf13/cobra"
)

var readingsFlags struct {
	yes bool
}

var readingsCmd = &cobra.Command{
	Use:   "readings",
	Short: "Manage saved readings",
}

var readingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved readings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAccounts(); err != nil {
			return err
		}

		list, err := a.gateway.ListReadings(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved readings")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSAVED\tBORN\tBIRTH PLACE\tFOCUS\tAVATAR")
		for _, r := range list {
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02"), r.BirthDate, r.BirthTime,
				r.BirthLocation, focusTitle(r), r.Avatar)
		}
		return w.Flush()
	},
}

var readingsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAccounts(); err != nil {
			return err
		}

		id := args[0]
		if !readingsFlags.yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete reading %s? [y/N] ", id)
			answer, err := readLine(bufio.NewReader(cmd.InOrStdin()))
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := a.gateway.DeleteReading(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		return nil
	},
}

func init() {
	readingsDeleteCmd.Flags().BoolVarP(&readingsFlags.yes, "yes", "y", false, "Skip the confirmation prompt")

	readingsCmd.AddCommand(readingsListCmd)
	readingsCmd.AddCommand(readingsDeleteCmd)
}

func focusTitle(r account.Reading) string {
	f, err := wizard.ParseFocus(r.Influence)
	if err != nil {
		return r.Influence
	}
	if opt, ok := wizard.FocusOptionFor(f); ok {
		return opt.Title
	}
	return r.Influence
}
