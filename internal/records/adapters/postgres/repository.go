package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/ports"

	"github.com/lib/pq"
)

const Schema = `
CREATE TABLE IF NOT EXISTS sheet_snapshots (
    sheet_key   TEXT PRIMARY KEY,
    import_id   UUID NOT NULL,
    headers     TEXT[] NOT NULL,
    imported_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS sheet_rows (
    import_id UUID NOT NULL,
    row_index INT NOT NULL,
    cells     JSONB NOT NULL,
    PRIMARY KEY (import_id, row_index)
);
`

// Swaps the sheet's snapshot pointer and purges the previous import's rows in
// a single statement.
const replaceSnapshotSQL = `
WITH previous AS (
    SELECT import_id FROM sheet_snapshots WHERE sheet_key = $1
), purge AS (
    DELETE FROM sheet_rows WHERE import_id IN (SELECT import_id FROM previous)
), pointer AS (
    INSERT INTO sheet_snapshots (sheet_key, import_id, headers, imported_at)
    VALUES ($1, $2::uuid, $3, $4)
    ON CONFLICT (sheet_key) DO UPDATE
    SET import_id = EXCLUDED.import_id,
        headers = EXCLUDED.headers,
        imported_at = EXCLUDED.imported_at
)
INSERT INTO sheet_rows (import_id, row_index, cells)
SELECT $2::uuid, r.ord, r.cells
FROM jsonb_array_elements($5::jsonb) WITH ORDINALITY AS r(cells, ord);
`

const selectSnapshotSQL = `
SELECT import_id, headers, imported_at
FROM sheet_snapshots
WHERE sheet_key = $1`

const selectRowsSQL = `
SELECT cells
FROM sheet_rows
WHERE import_id = $1
ORDER BY row_index`

type SnapshotRepository struct {
	db       DB
	sheetKey string
}

func NewSnapshotRepository(db DB, sheetKey string) *SnapshotRepository {
	return &SnapshotRepository{db: db, sheetKey: sheetKey}
}

var (
	_ ports.SnapshotReaderPort = (*SnapshotRepository)(nil)
	_ ports.SnapshotWriterPort = (*SnapshotRepository)(nil)
)

func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

func (r *SnapshotRepository) ReplaceSnapshot(ctx context.Context, s *domain.Snapshot) (int64, error) {
	rowsJSON, err := json.Marshal(s.Rows)
	if err != nil {
		return 0, err
	}

	sheetKey := s.SheetKey
	if sheetKey == "" {
		sheetKey = r.sheetKey
	}

	res, err := r.db.ExecContext(ctx, replaceSnapshotSQL,
		sheetKey,
		s.ImportID,
		pq.Array(s.Headers),
		s.FetchedAt,
		rowsJSON,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *SnapshotRepository) FetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := r.querySnapshot(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, selectRowsSQL, snap.ImportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cells []byte
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		var row domain.RawRow
		if err := json.Unmarshal(cells, &row); err != nil {
			return nil, fmt.Errorf("decode row %d of import %s: %w", len(snap.Rows)+1, snap.ImportID, err)
		}
		snap.Rows = append(snap.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snap, nil
}

func (r *SnapshotRepository) querySnapshot(ctx context.Context) (*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, selectSnapshotSQL, r.sheetKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: no snapshot stored for sheet %q", domain.ErrDataUnavailable, r.sheetKey)
	}

	var (
		importID   string
		headers    []string
		importedAt time.Time
	)
	if err := rows.Scan(&importID, pq.Array(&headers), &importedAt); err != nil {
		return nil, err
	}

	return &domain.Snapshot{
		SheetKey:  r.sheetKey,
		ImportID:  importID,
		Headers:   headers,
		FetchedAt: importedAt,
	}, nil
}
