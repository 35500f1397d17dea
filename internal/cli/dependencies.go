package cli

import (
	"github.com/finview/finview/internal/config"
	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/internal/storage"
	"github.com/finview/finview/internal/utils"
	"github.com/finview/finview/pkg/api"
	"github.com/finview/finview/pkg/budget"
	"github.com/finview/finview/pkg/dashboard"
	"github.com/finview/finview/pkg/report"
	"github.com/finview/finview/pkg/session"
	"github.com/finview/finview/pkg/transaction"
	"github.com/finview/finview/pkg/user"
)

// Dependencies holds all services of the application.
type Dependencies struct {
	Config      config.Application
	Bus         *eventbus.Bus
	Credentials *storage.CredentialsStore
	APIClient   *api.Client

	AuthAPI session.AuthAPI
	Session *session.Store

	UserService        user.Service
	TransactionService transaction.Service
	BudgetService      budget.Service
	DashboardService   dashboard.Service
	ReportService      report.Service
	CsvBudgetRenderer  *report.CsvBudgetRendererImpl

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services.
func BuildDependencies(cfg config.Application) *Dependencies {
	deps := &Dependencies{Config: cfg}

	deps.Bus = eventbus.New()
	deps.Credentials = storage.NewCredentialsStore(cfg.Credentials.Path)
	deps.APIClient = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, deps.Credentials, deps.Bus)

	deps.AuthAPI = session.NewAuthAPI(deps.APIClient)
	deps.Session = session.NewStore(deps.AuthAPI, deps.APIClient, deps.Bus, cfg.API.MediaBaseURL)

	deps.UserService = user.NewService(deps.APIClient, deps.Bus, cfg.API.MediaBaseURL)
	deps.TransactionService = transaction.NewService(deps.APIClient, deps.Bus)
	deps.BudgetService = budget.NewService(deps.APIClient, deps.TransactionService, deps.Bus)
	deps.DashboardService = dashboard.NewService(deps.APIClient, deps.Bus)
	deps.ReportService = report.NewService(deps.APIClient, deps.Bus, cfg.Export.Dir)
	deps.CsvBudgetRenderer = report.NewCsvBudgetRenderer()

	deps.Clock = utils.NewSystemClock()

	return deps
}
