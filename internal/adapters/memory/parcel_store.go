package memory

import (
	"context"
	"fmt"
	"route-consolidation-service/internal/domain"
	"route-consolidation-service/internal/ports"
	"slices"
	"strings"
	"sync"
)

// ParcelStore keeps parcels in a map. Returned parcels are copies.
type ParcelStore struct {
	mu      sync.RWMutex
	parcels map[string]domain.Parcel
}

func NewParcelStore(parcels ...*domain.Parcel) *ParcelStore {
	s := &ParcelStore{parcels: make(map[string]domain.Parcel, len(parcels))}
	for _, p := range parcels {
		s.parcels[p.ID] = *p
	}
	return s
}

func (s *ParcelStore) FindByID(ctx context.Context, id string) (*domain.Parcel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parcels[id]
	if !ok {
		return nil, fmt.Errorf("find parcel %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (s *ParcelStore) Find(ctx context.Context, filter ports.ParcelFilter, order ports.ParcelOrder) ([]*domain.Parcel, error) {
	s.mu.RLock()
	out := make([]*domain.Parcel, 0, len(s.parcels))
	for _, p := range s.parcels {
		if !matches(&p, filter) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *domain.Parcel) int {
		switch order {
		case ports.OrderByDeadlineAsc:
			if c := a.SLADeadline.Compare(b.SLADeadline); c != 0 {
				return c
			}
		case ports.OrderByCreatedAsc:
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *ParcelStore) Save(ctx context.Context, p *domain.Parcel) (*domain.Parcel, error) {
	if p == nil || p.ID == "" {
		return nil, &domain.ValidationError{Field: "id", Msg: "must be non-empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	// The deadline is fixed once a parcel exists.
	if prev, ok := s.parcels[p.ID]; ok {
		cp.SLADeadline = prev.SLADeadline
	}
	s.parcels[p.ID] = cp
	return &cp, nil
}

func matches(p *domain.Parcel, f ports.ParcelFilter) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, p.Status) {
		return false
	}
	if f.DeadlineBefore != nil && p.SLADeadline.After(*f.DeadlineBefore) {
		return false
	}
	if f.CreatedFrom != nil && p.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && p.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}
