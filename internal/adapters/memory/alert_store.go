package memory

import (
	"context"
	"route-consolidation-service/internal/domain"
	"slices"
	"sync"
)

// AlertStore holds the latest scan's alerts in process memory.
type AlertStore struct {
	mu     sync.RWMutex
	alerts []domain.SLARiskAlert
}

func NewAlertStore() *AlertStore {
	return &AlertStore{}
}

func (s *AlertStore) ReplaceActive(ctx context.Context, alerts []domain.SLARiskAlert) error {
	cp := slices.Clone(alerts)
	slices.SortStableFunc(cp, func(a, b domain.SLARiskAlert) int {
		return a.TimeToDeadline - b.TimeToDeadline
	})

	s.mu.Lock()
	s.alerts = cp
	s.mu.Unlock()
	return nil
}

func (s *AlertStore) ListActive(ctx context.Context) ([]domain.SLARiskAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SLARiskAlert{}, s.alerts...), nil
}
