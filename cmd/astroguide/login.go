package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var loginFlags struct {
	email         string
	passwordStdin bool
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to save and load readings",
	Long: `Sign in with your account email and password.

The session is kept in the local data directory until you run 'astroguide logout'
or it expires. Use --password-stdin to pipe the password in scripts.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAccounts(); err != nil {
			return err
		}

		if err := a.gateway.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.requireAccounts(); err != nil {
			return err
		}

		user, ok, err := a.gateway.Current(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlags.email, "email", "e", "", "Account email (prompted if omitted)")
	loginCmd.Flags().BoolVar(&loginFlags.passwordStdin, "password-stdin", false, "Read the password from stdin")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireAccounts(); err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	email := loginFlags.email
	if email == "" {
		fmt.Fprint(out, "Email: ")
		if email, err = readLine(in); err != nil {
			return err
		}
	}

	password, err := readPassword(in, out)
	if err != nil {
		return err
	}

	user, err := a.gateway.SignIn(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Signed in as %s\n", user.Email)
	return nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo from a terminal, or a plain line when
// stdin is piped.
func readPassword(in *bufio.Reader, out io.Writer) (string, error) {
	if !loginFlags.passwordStdin && term.IsTerminal(os.Stdin.Fd()) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(os.Stdin.Fd())
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	return readLine(in)
}
