// Package publisher emits at-risk scan findings to message brokers.
package publisher

import (
	"encoding/json"
	"fmt"
	"route-consolidation-service/internal/domain"
	"time"

	"github.com/google/uuid"
)

const (
	KindAlert  = "sla.alert"
	KindBreach = "sla.breach"
)

// AlertEvent is the wire envelope shared by every broker. Exactly one of
// Alert and Breach is set, matching Kind.
type AlertEvent struct {
	ID         string               `json:"id"`
	Kind       string               `json:"kind"`
	ParcelID   string               `json:"parcel_id"`
	OccurredAt time.Time            `json:"occurred_at"`
	Alert      *domain.SLARiskAlert `json:"alert,omitempty"`
	Breach     *domain.BreachEvent  `json:"breach,omitempty"`
}

func NewAlertEvent(a domain.SLARiskAlert) AlertEvent {
	return AlertEvent{
		ID:         uuid.NewString(),
		Kind:       KindAlert,
		ParcelID:   a.ParcelID,
		OccurredAt: a.DetectedAt,
		Alert:      &a,
	}
}

func NewBreachEvent(b domain.BreachEvent) AlertEvent {
	return AlertEvent{
		ID:         uuid.NewString(),
		Kind:       KindBreach,
		ParcelID:   b.ParcelID,
		OccurredAt: b.DetectedAt,
		Breach:     &b,
	}
}

func (e AlertEvent) encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Kind, err)
	}
	return b, nil
}
