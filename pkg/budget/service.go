package budget

import (
	"context"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/pkg/api"
	"github.com/finview/finview/pkg/transaction"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	GetAll(ctx context.Context) ([]Budget, error)
	GetById(ctx context.Context, id string) (Budget, error)
	Create(ctx context.Context, b Budget) (Budget, error)
	Update(ctx context.Context, b Budget) (Budget, error)
	Delete(ctx context.Context, id string) error
	Summaries(ctx context.Context, period Period) ([]Summary, error)
}

type ServiceImpl struct {
	client       *api.Client
	transactions transaction.Service
	bus          *eventbus.Bus
}

func NewService(client *api.Client, transactions transaction.Service, bus *eventbus.Bus) *ServiceImpl {
	return &ServiceImpl{client: client, transactions: transactions, bus: bus}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Budget, error) {
	var budgets []Budget
	if err := s.client.Get(ctx, "/budgets/", nil, &budgets); err != nil {
		log.Errorf("Failed to fetch budgets: %v", err)
		s.notifyFailure(ctx, "Failed to load budgets", "Please try again later")
		return nil, err
	}
	return budgets, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id string) (Budget, error) {
	var b Budget
	if err := s.client.Get(ctx, "/budgets/"+id+"/", nil, &b); err != nil {
		log.Errorf("Failed to fetch budget %s: %v", id, err)
		s.notifyFailure(ctx, "Failed to load budget", "Please try again later")
		return Budget{}, err
	}
	return b, nil
}

func (s *ServiceImpl) Create(ctx context.Context, b Budget) (Budget, error) {
	var created Budget
	if err := s.client.Post(ctx, "/budgets/", b, &created); err != nil {
		log.Errorf("Failed to create budget: %v", err)
		s.notifyFailure(ctx, "Failed to save budget", "Please try again later")
		return Budget{}, err
	}
	s.notifySuccess(ctx, "Budget saved successfully", "")
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, b Budget) (Budget, error) {
	var updated Budget
	if err := s.client.Put(ctx, "/budgets/"+b.ID+"/", b, &updated); err != nil {
		log.Errorf("Failed to update budget %s: %v", b.ID, err)
		s.notifyFailure(ctx, "Failed to save budget", "Please try again later")
		return Budget{}, err
	}
	s.notifySuccess(ctx, "Budget saved successfully", "")
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/budgets/"+id+"/"); err != nil {
		log.Errorf("Failed to delete budget %s: %v", id, err)
		s.notifyFailure(ctx, "Failed to delete budget", "Please try again later")
		return err
	}
	s.notifySuccess(ctx, "Budget deleted", "")
	return nil
}

// Summaries fetches budgets and transactions together and derives the spend
// for every budget of the given period.
func (s *ServiceImpl) Summaries(ctx context.Context, period Period) ([]Summary, error) {
	var (
		budgets      []Budget
		transactions []transaction.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactions.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return SummarizeAll(budgets, transactions, period), nil
}

func (s *ServiceImpl) notifySuccess(ctx context.Context, title, description string) {
	s.notify(ctx, eventbus.NotificationSuccess, title, description)
}

func (s *ServiceImpl) notifyFailure(ctx context.Context, title, description string) {
	s.notify(ctx, eventbus.NotificationFailure, title, description)
}

func (s *ServiceImpl) notify(ctx context.Context, variant eventbus.NotificationVariant, title, description string) {
	event := eventbus.NewEvent(ctx, eventbus.NotificationEvent, eventbus.Notification{
		Variant:     variant,
		Title:       title,
		Description: description,
	})
	if err := s.bus.Publish(event); err != nil {
		log.Errorf("failed to publish notification: %v", err)
	}
}
