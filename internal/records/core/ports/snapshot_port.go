package ports

import (
	"context"
	"time"

	"bot-metrics-service/internal/records/core/domain"
)

// SnapshotReaderPort returns the latest complete sheet snapshot.
// A missing snapshot is reported as domain.ErrDataUnavailable.
type SnapshotReaderPort interface {
	FetchSnapshot(ctx context.Context) (*domain.Snapshot, error)
}

type SnapshotWriterPort interface {
	// ReplaceSnapshot swaps the stored snapshot for s and returns the number
	// of rows written.
	ReplaceSnapshot(ctx context.Context, s *domain.Snapshot) (rows int64, err error)
}

type SelectionStorePort interface {
	SaveSelection(ctx context.Context, clientID string, sel domain.Selection, ttl time.Duration) error
	// LoadSelection returns domain.ErrSelectionNotFound when nothing is stored.
	LoadSelection(ctx context.Context, clientID string) (domain.Selection, error)
}
