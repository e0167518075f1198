package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/usecase"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

// Fake writer
type fakeSnapshotWriter struct {
	ReplaceFn func(ctx context.Context, s *domain.Snapshot) (int64, error)
	last      *domain.Snapshot
	calls     int
}

func (f *fakeSnapshotWriter) ReplaceSnapshot(ctx context.Context, s *domain.Snapshot) (int64, error) {
	f.calls++
	f.last = s
	if f.ReplaceFn != nil {
		return f.ReplaceFn(ctx, s)
	}
	return int64(len(s.Rows)), nil
}

func validImport() usecase.ImportSnapshotInput {
	return usecase.ImportSnapshotInput{
		Headers: []string{" 日期 ", "机器人", "咨询", "线索"},
		Rows: []domain.RawRow{
			{"日期 ": "2024-03-01", "机器人": "bot_x", "咨询": "10", "线索": float64(2)},
			{"日期": "2024-03-02", "机器人": "bot_x", "咨询": "20"},
		},
	}
}

// ------------------------------------------------------------
// PUSH
// ------------------------------------------------------------

func TestImportSnapshot_Success(t *testing.T) {
	writer := &fakeSnapshotWriter{}
	logger, hook := logtest.NewNullLogger()

	uc := usecase.NewImportSnapshotUseCase("sheet-1", writer, nil, 0, logger)

	res, err := uc.Execute(context.Background(), validImport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", res.Rows)
	}
	if res.ImportID == "" || res.ImportID != writer.last.ImportID {
		t.Fatalf("expected import id to be generated and passed to writer, got %q", res.ImportID)
	}
	if writer.last.SheetKey != "sheet-1" {
		t.Fatalf("expected sheet key sheet-1, got %s", writer.last.SheetKey)
	}
	if writer.last.Headers[0] != "日期" {
		t.Fatalf("expected trimmed headers, got %q", writer.last.Headers[0])
	}
	if _, ok := writer.last.Rows[0]["日期"]; !ok {
		t.Fatalf("expected trimmed row keys, got %v", writer.last.Rows[0])
	}
	if len(hook.Entries) != 1 {
		t.Fatalf("expected one info log, got %d", len(hook.Entries))
	}
}

func TestImportSnapshot_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   usecase.ImportSnapshotInput
	}{
		{"no_headers", usecase.ImportSnapshotInput{Rows: []domain.RawRow{{"a": "1"}}}},
		{"no_rows", usecase.ImportSnapshotInput{Headers: []string{"a"}}},
		{"blank_header", usecase.ImportSnapshotInput{Headers: []string{"a", " "}, Rows: []domain.RawRow{{"a": "1"}}}},
		{"duplicate_header", usecase.ImportSnapshotInput{Headers: []string{"a", "a "}, Rows: []domain.RawRow{{"a": "1"}}}},
		{"unknown_column", usecase.ImportSnapshotInput{Headers: []string{"a"}, Rows: []domain.RawRow{{"b": "1"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeSnapshotWriter{}
			logger, _ := logtest.NewNullLogger()
			uc := usecase.NewImportSnapshotUseCase("sheet-1", writer, nil, 0, logger)

			_, err := uc.Execute(context.Background(), tt.in)
			if !errors.Is(err, domain.ErrInvalidSnapshot) {
				t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
			}
			if writer.calls != 0 {
				t.Fatalf("writer should not be called on invalid input")
			}
		})
	}
}

func TestImportSnapshot_WriterError(t *testing.T) {
	writer := &fakeSnapshotWriter{
		ReplaceFn: func(ctx context.Context, s *domain.Snapshot) (int64, error) {
			return 0, errors.New("db failure")
		},
	}
	logger, _ := logtest.NewNullLogger()

	uc := usecase.NewImportSnapshotUseCase("sheet-1", writer, nil, 0, logger)

	_, err := uc.Execute(context.Background(), validImport())
	if err == nil || err.Error() != "db failure" {
		t.Fatalf("expected db failure, got %v", err)
	}
}

// ------------------------------------------------------------
// SYNC
// ------------------------------------------------------------

func TestSync_NotConfigured(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	uc := usecase.NewImportSnapshotUseCase("sheet-1", &fakeSnapshotWriter{}, nil, 0, logger)

	_, err := uc.Sync(context.Background())
	if !errors.Is(err, domain.ErrSourceNotConfigured) {
		t.Fatalf("expected ErrSourceNotConfigured, got %v", err)
	}
}

func TestSync_PullsAndStores(t *testing.T) {
	upstream := &fakeSnapshotReader{
		FetchFn: func(ctx context.Context) (*domain.Snapshot, error) {
			in := validImport()
			return &domain.Snapshot{Headers: in.Headers, Rows: in.Rows}, nil
		},
	}
	writer := &fakeSnapshotWriter{}
	logger, _ := logtest.NewNullLogger()

	uc := usecase.NewImportSnapshotUseCase("sheet-1", writer, upstream, 0, logger)

	res, err := uc.Sync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !upstream.called || writer.calls != 1 {
		t.Fatalf("expected upstream pull and one write")
	}
	if res.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", res.Rows)
	}
}

func TestSync_Throttled(t *testing.T) {
	upstream := &fakeSnapshotReader{
		FetchFn: func(ctx context.Context) (*domain.Snapshot, error) {
			in := validImport()
			return &domain.Snapshot{Headers: in.Headers, Rows: in.Rows}, nil
		},
	}
	writer := &fakeSnapshotWriter{}
	logger, _ := logtest.NewNullLogger()

	uc := usecase.NewImportSnapshotUseCase("sheet-1", writer, upstream, time.Hour, logger)

	if _, err := uc.Sync(context.Background()); err != nil {
		t.Fatalf("first sync should pass, got %v", err)
	}
	_, err := uc.Sync(context.Background())
	if !errors.Is(err, domain.ErrSyncThrottled) {
		t.Fatalf("expected ErrSyncThrottled, got %v", err)
	}
	if writer.calls != 1 {
		t.Fatalf("expected a single write, got %d", writer.calls)
	}
}

func TestSync_EmptyUpstream(t *testing.T) {
	upstream := &fakeSnapshotReader{
		FetchFn: func(ctx context.Context) (*domain.Snapshot, error) {
			return &domain.Snapshot{Headers: []string{"日期"}}, nil
		},
	}
	logger, _ := logtest.NewNullLogger()

	uc := usecase.NewImportSnapshotUseCase("sheet-1", &fakeSnapshotWriter{}, upstream, 0, logger)

	_, err := uc.Sync(context.Background())
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
