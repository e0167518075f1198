package usecase_test

import (
	"context"
	"errors"
	"testing"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/usecase"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// fakeSnapshotReader fakes SnapshotReaderPort for tests.
type fakeSnapshotReader struct {
	FetchFn func(ctx context.Context) (*domain.Snapshot, error)
	called  bool
}

func (f *fakeSnapshotReader) FetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	f.called = true
	if f.FetchFn != nil {
		return f.FetchFn(ctx)
	}
	return nil, nil
}

func sheetSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		ImportID: "imp-1",
		Headers:  []string{"日期", "机器人", "小组", "咨询", "线索"},
		Rows: []domain.RawRow{
			{"日期": "2024-03-02", "机器人": "bot_x", "小组": "A", "咨询": "20", "线索": "5"},
			{"日期": "2024-03-01", "机器人": "bot_x", "小组": "A", "咨询": "10", "线索": "2"},
			{"日期": "oops", "机器人": "bot_y", "小组": "A", "咨询": "1", "线索": "1"},
		},
	}
}

// ------------------------------------------------------------
// SUCCESS (inferred mapping)
// ------------------------------------------------------------

func TestLoadRecords_InferredMapping(t *testing.T) {
	reader := &fakeSnapshotReader{
		FetchFn: func(ctx context.Context) (*domain.Snapshot, error) {
			return sheetSnapshot(), nil
		},
	}
	logger, hook := logtest.NewNullLogger()

	uc := usecase.NewLoadRecordsUseCase(reader, usecase.LoadRecordsConfig{}, logger)

	records, err := uc.LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Consultations != 10 || records[1].Consultations != 20 {
		t.Fatalf("expected records sorted by date, got %+v", records)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning about malformed rows")
	}
	if entry.Data["dropped"] != 1 {
		t.Fatalf("expected dropped=1 in log fields, got %v", entry.Data["dropped"])
	}
}

// ------------------------------------------------------------
// SUCCESS (explicit mapping)
// ------------------------------------------------------------

func TestLoadRecords_ExplicitMapping(t *testing.T) {
	reader := &fakeSnapshotReader{
		FetchFn: func(ctx context.Context) (*domain.Snapshot, error) {
			return &domain.Snapshot{
				Headers: []string{"d", "who", "c", "l"},
				Rows: []domain.RawRow{
					{"d": "2024-03-01", "who": "bot_x", "c": "3", "l": "1"},
				},
			}, nil
		},
	}
	logger, hook := logtest.NewNullLogger()

	cfg := usecase.LoadRecordsConfig{
		Mapping: domain.ColumnMapping{
			domain.FieldDate:          "d",
			domain.FieldBotUsername:   "who",
			domain.FieldConsultations: "c",
			domain.FieldLeads:         "l",
		},
	}
	uc := usecase.NewLoadRecordsUseCase(reader, cfg, logger)

	records, err := uc.LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].Group != domain.DefaultGroup {
		t.Fatalf("unexpected records: %+v", records)
	}
	if len(hook.Entries) != 0 {
		t.Fatalf("expected no warnings for a clean snapshot")
	}
}

// ------------------------------------------------------------
// ERRORS
// ------------------------------------------------------------

func TestLoadRecords_EmptySnapshot(t *testing.T) {
	reader := &fakeSnapshotReader{
		FetchFn: func(ctx context.Context) (*domain.Snapshot, error) {
			return &domain.Snapshot{Headers: []string{"日期"}}, nil
		},
	}
	logger, _ := logtest.NewNullLogger()

	uc := usecase.NewLoadRecordsUseCase(reader, usecase.LoadRecordsConfig{}, logger)

	_, err := uc.LoadRecords(context.Background())
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestLoadRecords_UnmappableHeaders(t *testing.T) {
	reader := &fakeSnapshotReader{
		FetchFn: func(ctx context.Context) (*domain.Snapshot, error) {
			return &domain.Snapshot{
				Headers: []string{"x", "y"},
				Rows:    []domain.RawRow{{"x": "2024-03-01", "y": "1"}},
			}, nil
		},
	}
	logger, _ := logtest.NewNullLogger()

	uc := usecase.NewLoadRecordsUseCase(reader, usecase.LoadRecordsConfig{}, logger)

	_, err := uc.LoadRecords(context.Background())
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoadRecords_SourceError(t *testing.T) {
	reader := &fakeSnapshotReader{
		FetchFn: func(ctx context.Context) (*domain.Snapshot, error) {
			return nil, errors.New("db failure")
		},
	}
	logger, _ := logtest.NewNullLogger()

	uc := usecase.NewLoadRecordsUseCase(reader, usecase.LoadRecordsConfig{}, logger)

	records, err := uc.LoadRecords(context.Background())
	if err == nil || err.Error() != "db failure" {
		t.Fatalf("expected db failure, got %v", err)
	}
	if records != nil {
		t.Fatalf("expected nil records on error")
	}
}
