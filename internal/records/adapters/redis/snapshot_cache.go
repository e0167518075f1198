package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultSnapshotTTL = 30 * time.Minute

type cachedSnapshot struct {
	SheetKey  string          `json:"sheet_key"`
	ImportID  string          `json:"import_id"`
	Headers   []string        `json:"headers"`
	Rows      []domain.RawRow `json:"rows"`
	FetchedAt time.Time       `json:"fetched_at"`
}

var errStaleSnapshot = errors.New("snapshot replaced while it was being read")

// SnapshotCache sits in front of the snapshot store. Reads are served from
// Redis while the entry lives; writes go through to the store and drop the
// cached copy.
//
// Every write bumps a generation counter. A read only caches what it fetched
// if the generation is still the one it saw before hitting the store.
type SnapshotCache struct {
	redis  *redis.Client
	reader ports.SnapshotReaderPort
	writer ports.SnapshotWriterPort
	key    string
	genKey string
	ttl    time.Duration
	log    logrus.FieldLogger
}

var (
	_ ports.SnapshotReaderPort = (*SnapshotCache)(nil)
	_ ports.SnapshotWriterPort = (*SnapshotCache)(nil)
)

func NewSnapshotCache(
	client *redis.Client,
	reader ports.SnapshotReaderPort,
	writer ports.SnapshotWriterPort,
	sheetKey string,
	ttl time.Duration,
	log logrus.FieldLogger,
) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotCache{
		redis:  client,
		reader: reader,
		writer: writer,
		key:    "snapshot:" + sheetKey,
		genKey: "snapshot:" + sheetKey + ":gen",
		ttl:    ttl,
		log:    log,
	}
}

func (c *SnapshotCache) FetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	data, err := c.redis.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var cached cachedSnapshot
		if err := json.Unmarshal(data, &cached); err == nil {
			return &domain.Snapshot{
				SheetKey:  cached.SheetKey,
				ImportID:  cached.ImportID,
				Headers:   cached.Headers,
				Rows:      cached.Rows,
				FetchedAt: cached.FetchedAt,
			}, nil
		}
		c.log.WithField("key", c.key).Warn("discarding undecodable cached snapshot")
	case errors.Is(err, redis.Nil):
	default:
		// Redis being down must not take the dashboard with it.
		c.log.WithError(err).Warn("snapshot cache read failed")
	}

	gen, err := c.redis.Get(ctx, c.genKey).Result()
	cacheable := err == nil || errors.Is(err, redis.Nil)

	snap, err := c.reader.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		c.put(ctx, snap, gen)
	}
	return snap, nil
}

func (c *SnapshotCache) ReplaceSnapshot(ctx context.Context, s *domain.Snapshot) (int64, error) {
	rows, err := c.writer.ReplaceSnapshot(ctx, s)
	if err != nil {
		return 0, err
	}
	if err := c.Invalidate(ctx); err != nil {
		c.log.WithError(err).Warn("snapshot cache invalidation failed")
	}
	return rows, nil
}

func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	_, err := c.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, c.genKey)
		p.Del(ctx, c.key)
		return nil
	})
	return err
}

// put stores s unless the generation moved past gen since s was read.
func (c *SnapshotCache) put(ctx context.Context, s *domain.Snapshot, gen string) {
	if s == nil {
		return
	}
	data, err := json.Marshal(cachedSnapshot{
		SheetKey:  s.SheetKey,
		ImportID:  s.ImportID,
		Headers:   s.Headers,
		Rows:      s.Rows,
		FetchedAt: s.FetchedAt,
	})
	if err != nil {
		c.log.WithError(err).Warn("snapshot cache encode failed")
		return
	}

	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, c.genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, c.key, data, c.ttl)
			return nil
		})
		return err
	}, c.genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		c.log.WithField("key", c.key).Debug("skipping cache write for a replaced snapshot")
	default:
		c.log.WithError(err).Warn("snapshot cache write failed")
	}
}
