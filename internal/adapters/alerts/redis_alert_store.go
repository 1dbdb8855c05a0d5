package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"route-consolidation-service/internal/domain"
	"slices"

	"github.com/redis/go-redis/v9"
)

const activeAlertsKey = "routeconsolidation:alerts:active"

// RedisAlertStore keeps the active alert set as one JSON document so every
// instance serves the same snapshot.
type RedisAlertStore struct {
	client *redis.Client
}

func NewRedisAlertStore(client *redis.Client) *RedisAlertStore {
	return &RedisAlertStore{client: client}
}

func (r *RedisAlertStore) ReplaceActive(ctx context.Context, alerts []domain.SLARiskAlert) error {
	sorted := slices.Clone(alerts)
	slices.SortStableFunc(sorted, func(a, b domain.SLARiskAlert) int {
		return a.TimeToDeadline - b.TimeToDeadline
	})

	data, err := json.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("replace active alerts: %w", err)
	}
	if err := r.client.Set(ctx, activeAlertsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("replace active alerts: %w", err)
	}
	return nil
}

func (r *RedisAlertStore) ListActive(ctx context.Context) ([]domain.SLARiskAlert, error) {
	data, err := r.client.Get(ctx, activeAlertsKey).Bytes()
	if err == redis.Nil {
		return []domain.SLARiskAlert{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}

	var out []domain.SLARiskAlert
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("list active alerts: decode: %w", err)
	}
	return out, nil
}
