package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/ports"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type ImportSnapshotInput struct {
	Headers []string
	Rows    []domain.RawRow
}

type ImportSnapshotResult struct {
	ImportID string
	Rows     int64
}

type ImportSnapshotUseCase struct {
	sheetKey string
	writer   ports.SnapshotWriterPort
	upstream ports.SnapshotReaderPort // nil when no spreadsheet source is configured
	limiter  *rate.Limiter
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewImportSnapshotUseCase wires the import path. syncEvery bounds how often
// Sync may hit the upstream sheet; zero disables the limit.
func NewImportSnapshotUseCase(
	sheetKey string,
	writer ports.SnapshotWriterPort,
	upstream ports.SnapshotReaderPort,
	syncEvery time.Duration,
	log logrus.FieldLogger,
) *ImportSnapshotUseCase {
	limit := rate.Inf
	if syncEvery > 0 {
		limit = rate.Every(syncEvery)
	}
	return &ImportSnapshotUseCase{
		sheetKey: sheetKey,
		writer:   writer,
		upstream: upstream,
		limiter:  rate.NewLimiter(limit, 1),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Execute validates a pushed snapshot and replaces the stored one with it.
func (uc *ImportSnapshotUseCase) Execute(ctx context.Context, in ImportSnapshotInput) (ImportSnapshotResult, error) {
	snap, err := uc.buildSnapshot(in)
	if err != nil {
		return ImportSnapshotResult{}, err
	}
	return uc.store(ctx, snap, "push")
}

// Sync pulls the upstream sheet and stores it.
func (uc *ImportSnapshotUseCase) Sync(ctx context.Context) (ImportSnapshotResult, error) {
	if uc.upstream == nil {
		return ImportSnapshotResult{}, domain.ErrSourceNotConfigured
	}
	if !uc.limiter.Allow() {
		return ImportSnapshotResult{}, domain.ErrSyncThrottled
	}

	pulled, err := uc.upstream.FetchSnapshot(ctx)
	if err != nil {
		return ImportSnapshotResult{}, err
	}
	if pulled == nil || len(pulled.Rows) == 0 {
		return ImportSnapshotResult{}, domain.ErrDataUnavailable
	}

	snap, err := uc.buildSnapshot(ImportSnapshotInput{Headers: pulled.Headers, Rows: pulled.Rows})
	if err != nil {
		return ImportSnapshotResult{}, err
	}
	return uc.store(ctx, snap, "sync")
}

func (uc *ImportSnapshotUseCase) store(ctx context.Context, snap *domain.Snapshot, origin string) (ImportSnapshotResult, error) {
	rows, err := uc.writer.ReplaceSnapshot(ctx, snap)
	if err != nil {
		return ImportSnapshotResult{}, err
	}

	uc.log.WithFields(logrus.Fields{
		"sheet_key": snap.SheetKey,
		"import_id": snap.ImportID,
		"rows":      rows,
		"origin":    origin,
	}).Info("snapshot stored")

	return ImportSnapshotResult{ImportID: snap.ImportID, Rows: rows}, nil
}

func (uc *ImportSnapshotUseCase) buildSnapshot(in ImportSnapshotInput) (*domain.Snapshot, error) {
	if len(in.Headers) == 0 {
		return nil, fmt.Errorf("%w: headers are required", domain.ErrInvalidSnapshot)
	}
	if len(in.Rows) == 0 {
		return nil, fmt.Errorf("%w: rows are required", domain.ErrInvalidSnapshot)
	}

	headers := make([]string, 0, len(in.Headers))
	known := make(map[string]bool, len(in.Headers))
	for _, h := range in.Headers {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("%w: blank header", domain.ErrInvalidSnapshot)
		}
		if known[h] {
			return nil, fmt.Errorf("%w: duplicate header %q", domain.ErrInvalidSnapshot, h)
		}
		known[h] = true
		headers = append(headers, h)
	}

	rows := make([]domain.RawRow, len(in.Rows))
	for i, row := range in.Rows {
		clean := make(domain.RawRow, len(row))
		for k, v := range row {
			k = strings.TrimSpace(k)
			if !known[k] {
				return nil, fmt.Errorf("%w: row %d has unknown column %q", domain.ErrInvalidSnapshot, i+1, k)
			}
			clean[k] = v
		}
		rows[i] = clean
	}

	return &domain.Snapshot{
		SheetKey:  uc.sheetKey,
		ImportID:  uuid.NewString(),
		Headers:   headers,
		Rows:      rows,
		FetchedAt: uc.now(),
	}, nil
}
