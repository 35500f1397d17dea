package transaction

import (
	"context"
	"fmt"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/pkg/api"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Transaction, error)
	GetById(ctx context.Context, id string) (Transaction, error)
	Create(ctx context.Context, t Transaction) (Transaction, error)
	Update(ctx context.Context, t Transaction) (Transaction, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	client *api.Client
	bus    *eventbus.Bus
}

func NewService(client *api.Client, bus *eventbus.Bus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Transaction, error) {
	var transactions []Transaction
	if err := s.client.Get(ctx, "/transactions/", nil, &transactions); err != nil {
		log.Errorf("Failed to fetch transactions: %v", err)
		s.notifyFailure(ctx, "Failed to load transactions", "Please try again later")
		return nil, err
	}
	return transactions, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id string) (Transaction, error) {
	var t Transaction
	if err := s.client.Get(ctx, "/transactions/"+id+"/", nil, &t); err != nil {
		log.Errorf("Failed to fetch transaction %s: %v", id, err)
		s.notifyFailure(ctx, "Failed to load transaction", "Please try again later")
		return Transaction{}, err
	}
	return t, nil
}

func (s *ServiceImpl) Create(ctx context.Context, t Transaction) (Transaction, error) {
	var created Transaction
	if err := s.client.Post(ctx, "/transactions/", t, &created); err != nil {
		log.Errorf("Failed to create transaction: %v", err)
		s.notifyFailure(ctx, "Failed to save transaction", "Please try again later")
		return Transaction{}, err
	}
	s.notifySuccess(ctx, "Transaction saved", fmt.Sprintf("%s recorded", created.Description))
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, t Transaction) (Transaction, error) {
	var updated Transaction
	if err := s.client.Put(ctx, "/transactions/"+t.ID+"/", t, &updated); err != nil {
		log.Errorf("Failed to update transaction %s: %v", t.ID, err)
		s.notifyFailure(ctx, "Failed to save transaction", "Please try again later")
		return Transaction{}, err
	}
	s.notifySuccess(ctx, "Transaction updated", fmt.Sprintf("%s updated", updated.Description))
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/transactions/"+id+"/"); err != nil {
		log.Errorf("Failed to delete transaction %s: %v", id, err)
		s.notifyFailure(ctx, "Failed to delete transaction", "Please try again later")
		return err
	}
	s.notifySuccess(ctx, "Transaction deleted", "The transaction has been removed")
	return nil
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
