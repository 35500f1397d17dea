package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	errNotSignedIn = errors.New("not signed in, run 'finview login' first")
	errLoginFailed = errors.New("login failed")
)

func requireAuth(deps *Dependencies) error {
	if !deps.Session.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}

func newLoginCommand(deps *Dependencies) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the finance service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Session.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			// The session reports a rejected login via notification and
			// swallows the error, so surface the failure here.
			if !deps.Session.IsAuthenticated() {
				return errLoginFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand(deps *Dependencies) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.Session.Register(cmd.Context(), email, password, name)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newLogoutCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.Session.Logout(cmd.Context())
		},
	}
}

func newWhoamiCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := deps.Session.CurrentUser()
			if !ok {
				return errNotSignedIn
			}
			fmt.Printf("%s <%s> (id %s)\n", u.Name, u.Email, u.ID)
			if u.Preferences != nil && u.Preferences.Currency != "" {
				fmt.Printf("currency: %s\n", u.Preferences.Currency)
			}
			return nil
		},
	}
}

func newAccountsCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage linked accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the accounts this session can switch between",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			accounts := deps.Session.ActiveAccounts()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tACTIVE")
			for _, a := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", a.ID, a.Name, a.Email, a.IsActive)
			}
			return w.Flush()
		},
	}

	sw := &cobra.Command{
		Use:   "switch <account-id>",
		Short: "Switch to another linked account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			return deps.Session.SwitchAccount(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, sw)
	return cmd
}
