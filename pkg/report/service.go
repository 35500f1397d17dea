package report

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/pkg/api"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	SpendingByCategory(ctx context.Context, r Range) ([]CategoryAmount, error)
	IncomeByCategory(ctx context.Context, r Range) ([]CategoryAmount, error)
	SpendingOverTime(ctx context.Context, r Range) (OverTime, error)
	// Export downloads the report blob and writes it to the export
	// directory. It returns the path of the written file.
	Export(ctx context.Context, reportType Type, format Format, r Range) (string, error)
}

type ServiceImpl struct {
	client    *api.Client
	bus       *eventbus.Bus
	exportDir string
}

func NewService(client *api.Client, bus *eventbus.Bus, exportDir string) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus, exportDir: exportDir}
}

func rangeQuery(r Range) url.Values {
	query := url.Values{}
	query.Set("start_date", r.From.String())
	query.Set("end_date", r.To.String())
	return query
}

func (s *ServiceImpl) SpendingByCategory(ctx context.Context, r Range) ([]CategoryAmount, error) {
	var data []CategoryAmount
	if err := s.client.Get(ctx, "/reports/spending-by-category/", rangeQuery(r), &data); err != nil {
		log.Errorf("Failed to fetch spending by category: %v", err)
		s.notifyFailure(ctx, "Failed to load report", "Please try again later")
		return nil, err
	}
	return data, nil
}

func (s *ServiceImpl) IncomeByCategory(ctx context.Context, r Range) ([]CategoryAmount, error) {
	var data []CategoryAmount
	if err := s.client.Get(ctx, "/reports/income-by-category/", rangeQuery(r), &data); err != nil {
		log.Errorf("Failed to fetch income by category: %v", err)
		s.notifyFailure(ctx, "Failed to load report", "Please try again later")
		return nil, err
	}
	return data, nil
}

func (s *ServiceImpl) SpendingOverTime(ctx context.Context, r Range) (OverTime, error) {
	var data OverTime
	if err := s.client.Get(ctx, "/reports/spending-over-time/", rangeQuery(r), &data); err != nil {
		log.Errorf("Failed to fetch spending over time: %v", err)
		s.notifyFailure(ctx, "Failed to load report", "Please try again later")
		return OverTime{}, err
	}
	return data, nil
}

func (s *ServiceImpl) Export(ctx context.Context, reportType Type, format Format, r Range) (string, error) {
	if !ValidType(reportType) {
		return "", fmt.Errorf("unknown report type %q", reportType)
	}
	if !ValidFormat(format) {
		return "", fmt.Errorf("unknown export format %q", format)
	}

	name := fmt.Sprintf("%s-report-%s.%s", reportType, r, format)
	path := filepath.Join(s.exportDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	endpoint := fmt.Sprintf("/reports/export/%s/%s/", reportType, format)
	if err := s.client.Download(ctx, endpoint, rangeQuery(r), file); err != nil {
		file.Close()
		os.Remove(path)
		log.Errorf("Export failed: %v", err)
		s.notifyFailure(ctx, "Failed to export report", "Please try again later")
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to finish export file: %w", err)
	}

	s.notifySuccess(ctx, fmt.Sprintf("Report exported as %s", strings.ToUpper(string(format))), name)
	return path, nil
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
