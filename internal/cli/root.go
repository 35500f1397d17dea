package cli

import (
	"fmt"
	"os"

	"github.com/finview/finview/internal/config"
	"github.com/finview/finview/internal/eventbus"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the finview command tree with all services wired.
func NewRootCommand() (*cobra.Command, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}
	deps := BuildDependencies(cfg)
	registerObservers(deps)

	root := &cobra.Command{
		Use:           "finview",
		Short:         "Command-line client for the finview personal finance service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// The startup authentication probe. Failures leave the session
			// unauthenticated; individual commands decide whether that is
			// acceptable.
			deps.Session.CheckAuth(cmd.Context())
		},
	}

	root.AddCommand(
		newLoginCommand(deps),
		newRegisterCommand(deps),
		newLogoutCommand(deps),
		newWhoamiCommand(deps),
		newAccountsCommand(deps),
		newTransactionsCommand(deps),
		newBudgetsCommand(deps),
		newDashboardCommand(deps),
		newReportsCommand(deps),
		newSettingsCommand(deps),
	)

	return root, nil
}

func configPath() string {
	if path := os.Getenv("FINVIEW_CONFIG"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./finview.yaml"
	}
	return dir + "/finview/finview.yaml"
}

// registerObservers wires the two global side channels: notifications are
// printed as they happen, and the single session-expired observer tells the
// user to sign in again. The token itself is already cleared by the
// transport before the event fires.
func registerObservers(deps *Dependencies) {
	eventbus.SubscribeTyped(deps.Bus, eventbus.NotificationEvent,
		func(e eventbus.EventT[eventbus.Notification]) error {
			marker := "ok"
			if e.Data.Variant == eventbus.NotificationFailure {
				marker = "error"
			}
			if e.Data.Description == "" {
				fmt.Fprintf(os.Stderr, "[%s] %s\n", marker, e.Data.Title)
			} else {
				fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", marker, e.Data.Title, e.Data.Description)
			}
			return nil
		})

	eventbus.SubscribeTyped(deps.Bus, eventbus.SessionExpiredEvent,
		func(e eventbus.EventT[eventbus.SessionExpired]) error {
			fmt.Fprintln(os.Stderr, "Your session has expired. Run 'finview login' to sign in again.")
			return nil
		})
}
