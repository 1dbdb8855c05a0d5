package ports

import (
	"context"
	"route-consolidation-service/internal/domain"
)

// Holds the alerts raised by the most recent at-risk scan.
type AlertStore interface {
	// Replace the active alert set with alerts.
	ReplaceActive(ctx context.Context, alerts []domain.SLARiskAlert) error
	// Return the active alerts, most urgent deadline first.
	ListActive(ctx context.Context) ([]domain.SLARiskAlert, error)
}

// Emits scanner findings to downstream consumers.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert domain.SLARiskAlert) error
	PublishBreach(ctx context.Context, breach domain.BreachEvent) error
}
