package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/finview/finview/pkg/user"
	"github.com/spf13/cobra"
)

func newSettingsCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Update profile, password and preferences",
	}
	cmd.AddCommand(
		newProfileCommand(deps),
		newPasswordCommand(deps),
		newPreferencesCommand(deps),
	)
	return cmd
}

func newProfileCommand(deps *Dependencies) *cobra.Command {
	var name, email, avatarPath string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update name, email, or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}

			// Without an avatar this is a plain account update; the
			// multipart profile endpoint is only needed for the file.
			if avatarPath == "" {
				u, ok := deps.Session.CurrentUser()
				if !ok {
					return errNotSignedIn
				}
				if name != "" {
					u.Name = name
				}
				if email != "" {
					u.Email = email
				}
				updated, err := deps.UserService.UpdateUser(cmd.Context(), u)
				if err != nil {
					return err
				}
				deps.Session.SetCurrentUser(updated)
				return nil
			}

			file, err := os.Open(avatarPath)
			if err != nil {
				return fmt.Errorf("failed to open avatar file: %w", err)
			}
			defer file.Close()

			update := user.ProfileUpdate{
				Name:       name,
				Email:      email,
				Avatar:     file,
				AvatarName: filepath.Base(avatarPath),
			}
			updated, err := deps.UserService.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			deps.Session.SetCurrentUser(updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&avatarPath, "avatar", "", "path to an avatar image")
	return cmd
}

func newPasswordCommand(deps *Dependencies) *cobra.Command {
	var current, updated string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			return deps.UserService.ChangePassword(cmd.Context(), current, updated)
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&updated, "new", "", "new password")
	cmd.MarkFlagRequired("current")
	cmd.MarkFlagRequired("new")
	return cmd
}

func newPreferencesCommand(deps *Dependencies) *cobra.Command {
	var currency string
	var emailAlerts, weeklyReport, budgetAlerts bool

	cmd := &cobra.Command{
		Use:   "preferences",
		Short: "Update currency and notification preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}

			prefs := user.Preferences{
				Currency: currency,
				Notifications: &user.Notifications{
					EmailAlerts:  emailAlerts,
					WeeklyReport: weeklyReport,
					BudgetAlerts: budgetAlerts,
				},
			}
			updated, err := deps.UserService.UpdatePreferences(cmd.Context(), prefs)
			if err != nil {
				return err
			}
			deps.Session.SetCurrentUser(updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "preferred currency code")
	cmd.Flags().BoolVar(&emailAlerts, "email-alerts", false, "receive email alerts")
	cmd.Flags().BoolVar(&weeklyReport, "weekly-report", false, "receive the weekly report")
	cmd.Flags().BoolVar(&budgetAlerts, "budget-alerts", false, "alert when a budget is exceeded")
	return cmd
}
