package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/ports"

	"github.com/redis/go-redis/v9"
)

// SelectionStore keeps the last filter each dashboard client applied.
type SelectionStore struct {
	redis *redis.Client
}

var _ ports.SelectionStorePort = (*SelectionStore)(nil)

func NewSelectionStore(client *redis.Client) *SelectionStore {
	return &SelectionStore{redis: client}
}

func selectionKey(clientID string) string {
	return "selection:" + clientID
}

func (s *SelectionStore) SaveSelection(ctx context.Context, clientID string, sel domain.Selection, ttl time.Duration) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, selectionKey(clientID), data, ttl).Err()
}

func (s *SelectionStore) LoadSelection(ctx context.Context, clientID string) (domain.Selection, error) {
	data, err := s.redis.Get(ctx, selectionKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Selection{}, domain.ErrSelectionNotFound
	}
	if err != nil {
		return domain.Selection{}, err
	}

	var sel domain.Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return domain.Selection{}, err
	}
	return sel, nil
}
