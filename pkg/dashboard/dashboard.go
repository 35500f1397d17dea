package dashboard

import (
	"context"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/pkg/api"
	"github.com/finview/finview/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Summary is the server-side aggregation shown on the dashboard.
type Summary struct {
	TotalIncome        decimal.Decimal           `json:"totalIncome"`
	TotalExpenses      decimal.Decimal           `json:"totalExpenses"`
	Balance            decimal.Decimal           `json:"balance"`
	MonthlyChange      decimal.Decimal           `json:"monthlyChange"`
	ExpensesByCategory []CategoryAmount          `json:"expensesByCategory"`
	RecentTransactions []transaction.Transaction `json:"recentTransactions"`
	SpendingOverTime   []SpendingPoint           `json:"spendingOverTime"`
}

type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type SpendingPoint struct {
	Date     string          `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

type Service interface {
	GetSummary(ctx context.Context) (Summary, error)
	GetRecentTransactions(ctx context.Context) ([]transaction.Transaction, error)
}

type ServiceImpl struct {
	client *api.Client
	bus    *eventbus.Bus
}

func NewService(client *api.Client, bus *eventbus.Bus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) GetSummary(ctx context.Context) (Summary, error) {
	var summary Summary
	if err := s.client.Get(ctx, "/dashboard/summary/", nil, &summary); err != nil {
		log.Errorf("Failed to fetch dashboard summary: %v", err)
		s.notifyFailure(ctx, "Failed to load dashboard", "Please try again later")
		return Summary{}, err
	}
	return summary, nil
}

func (s *ServiceImpl) GetRecentTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	var transactions []transaction.Transaction
	if err := s.client.Get(ctx, "/dashboard/recent-transactions/", nil, &transactions); err != nil {
		log.Errorf("Failed to fetch recent transactions: %v", err)
		s.notifyFailure(ctx, "Failed to load recent transactions", "Please try again later")
		return nil, err
	}
	return transactions, nil
}

func (s *ServiceImpl) notifyFailure(ctx context.Context, title, description string) {
	event := eventbus.NewEvent(ctx, eventbus.NotificationEvent, eventbus.Notification{
		Variant:     eventbus.NotificationFailure,
		Title:       title,
		Description: description,
	})
	if err := s.bus.Publish(event); err != nil {
		log.Errorf("failed to publish notification: %v", err)
	}
}
