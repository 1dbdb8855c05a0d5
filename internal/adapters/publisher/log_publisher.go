package publisher

import (
	"context"
	"log"
	"route-consolidation-service/internal/domain"
)

// LogPublisher writes findings to the process log. It is the default when no
// broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher { return &LogPublisher{} }

func (LogPublisher) PublishAlert(ctx context.Context, a domain.SLARiskAlert) error {
	log.Printf(
		"op=publish kind=%s parcel_id=%s risk=%s ttd=%d est=%d",
		KindAlert, a.ParcelID, a.RiskLevel, a.TimeToDeadline, a.EstimatedDeliveryTime,
	)
	return nil
}

func (LogPublisher) PublishBreach(ctx context.Context, b domain.BreachEvent) error {
	log.Printf(
		"op=publish kind=%s parcel_id=%s overdue_min=%d",
		KindBreach, b.ParcelID, b.MinutesOverdue,
	)
	return nil
}
