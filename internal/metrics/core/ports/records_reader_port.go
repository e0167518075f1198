package ports

import (
	"context"

	records "bot-metrics-service/internal/records/core/domain"
)

// RecordsReaderPort yields the normalized records of the current snapshot,
// sorted by date.
type RecordsReaderPort interface {
	LoadRecords(ctx context.Context) ([]records.MetricRecord, error)
}
