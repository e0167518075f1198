package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bot-metrics-service/internal/metrics/core/domain"
	"bot-metrics-service/internal/metrics/core/usecase"
	records "bot-metrics-service/internal/records/core/domain"
)

// fakeRecordsReader fakes RecordsReaderPort for tests.
type fakeRecordsReader struct {
	LoadFn func(ctx context.Context) ([]records.MetricRecord, error)
	calls  int
}

func (f *fakeRecordsReader) LoadRecords(ctx context.Context) ([]records.MetricRecord, error) {
	f.calls++
	if f.LoadFn != nil {
		return f.LoadFn(ctx)
	}
	return fixture(), nil
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(date, group, bot string, consultations, leads int64) records.MetricRecord {
	return records.MetricRecord{
		Date:          day(date),
		BotUsername:   "u_" + bot,
		BotNoteName:   bot,
		Group:         group,
		Consultations: consultations,
		Leads:         leads,
	}
}

// fixture ends on Wednesday 2024-03-06.
func fixture() []records.MetricRecord {
	return []records.MetricRecord{
		rec("2024-02-26", "A", "botX", 7, 1),
		rec("2024-03-01", "A", "botX", 10, 2),
		rec("2024-03-01", "B", "botY", 4, 0),
		rec("2024-03-05", "A", "botX", 6, 1),
		rec("2024-03-06", "A", "botX", 12, 3),
		rec("2024-03-06", "B", "botY", 2, 1),
		rec("2024-03-06", "A", "botZ", 3, 0),
	}
}

// ------------------------------------------------------------
// SUMMARY
// ------------------------------------------------------------

func TestGetSummary_Day(t *testing.T) {
	uc := usecase.NewGetSummaryUseCase(&fakeRecordsReader{})

	out, err := uc.Execute(context.Background(), usecase.GetSummaryInput{
		Window:  domain.WindowSpec{Kind: domain.WindowDay},
		GroupBy: domain.GroupByGroup,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.Reference.Equal(day("2024-03-06")) {
		t.Fatalf("expected reference 2024-03-06, got %s", out.Reference)
	}
	if out.Totals.TotalConsultations != 17 || out.Totals.TotalLeads != 4 {
		t.Fatalf("unexpected totals %+v", out.Totals)
	}
	if out.Comparison == nil || out.Comparison.Previous.TotalConsultations != 6 || out.Comparison.DiffAvgConsultations != 11 {
		t.Fatalf("unexpected comparison %+v", out.Comparison)
	}
	if out.LastWeek != nil {
		t.Fatalf("last complete week is only reported for week summaries")
	}

	if len(out.Keys) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(out.Keys))
	}
	if out.Keys[0].Key.Group != "A" || out.Keys[0].Current.TotalConsultations != 15 {
		t.Fatalf("unexpected group A summary %+v", out.Keys[0])
	}
	if out.Keys[1].Key.Group != "B" || out.Keys[1].Comparison.PctChangeConsultations != 100 {
		t.Fatalf("expected group B to jump from zero, got %+v", out.Keys[1])
	}
}

func TestGetSummary_WeekReportsLastCompleteWeek(t *testing.T) {
	uc := usecase.NewGetSummaryUseCase(&fakeRecordsReader{})

	out, err := uc.Execute(context.Background(), usecase.GetSummaryInput{
		Window: domain.WindowSpec{Kind: domain.WindowWeek},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.GroupBy != domain.GroupByNone || out.Keys != nil {
		t.Fatalf("expected no breakdown, got %+v", out.Keys)
	}
	if out.Totals.TotalConsultations != 23 || out.Totals.DayCount != 3 {
		t.Fatalf("unexpected week-to-date totals %+v", out.Totals)
	}
	if out.Comparison.Previous.TotalConsultations != 14 || out.Comparison.Previous.DayCount != 3 {
		t.Fatalf("unexpected previous week window %+v", out.Comparison.Previous)
	}
	if out.LastWeek == nil {
		t.Fatalf("expected last complete week benchmark")
	}
	if !out.LastWeek.Window.Start.Equal(day("2024-02-22")) || out.LastWeek.Result.TotalConsultations != 7 {
		t.Fatalf("unexpected benchmark %+v", out.LastWeek)
	}
}

func TestGetSummary_Custom(t *testing.T) {
	uc := usecase.NewGetSummaryUseCase(&fakeRecordsReader{})

	custom := domain.DateWindow{Start: day("2024-03-01"), End: day("2024-03-05")}
	out, err := uc.Execute(context.Background(), usecase.GetSummaryInput{
		Window:  domain.WindowSpec{Kind: domain.WindowCustom, Custom: &custom},
		GroupBy: domain.GroupByBot,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Previous != nil || out.Comparison != nil {
		t.Fatalf("custom windows must not be compared")
	}
	if out.Totals.TotalConsultations != 20 || out.Totals.DayCount != 5 {
		t.Fatalf("unexpected totals %+v", out.Totals)
	}
	if len(out.Keys) != 2 || out.Keys[0].Comparison != nil {
		t.Fatalf("unexpected keys %+v", out.Keys)
	}
}

func TestGetSummary_Errors(t *testing.T) {
	tests := []struct {
		name   string
		reader *fakeRecordsReader
		in     usecase.GetSummaryInput
		want   error
	}{
		{
			name:   "reader_error",
			reader: &fakeRecordsReader{LoadFn: func(ctx context.Context) ([]records.MetricRecord, error) { return nil, records.ErrConfiguration }},
			in:     usecase.GetSummaryInput{Window: domain.WindowSpec{Kind: domain.WindowDay}},
			want:   records.ErrConfiguration,
		},
		{
			name:   "no_records",
			reader: &fakeRecordsReader{LoadFn: func(ctx context.Context) ([]records.MetricRecord, error) { return nil, nil }},
			in:     usecase.GetSummaryInput{Window: domain.WindowSpec{Kind: domain.WindowDay}},
			want:   records.ErrDataUnavailable,
		},
		{
			name:   "bad_rolling",
			reader: &fakeRecordsReader{},
			in:     usecase.GetSummaryInput{Window: domain.WindowSpec{Kind: domain.WindowRolling}},
			want:   domain.ErrInvalidRollingDays,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.NewGetSummaryUseCase(tt.reader).Execute(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// ------------------------------------------------------------
// RANKINGS
// ------------------------------------------------------------

func TestGetRankings_Day(t *testing.T) {
	uc := usecase.NewGetRankingsUseCase(&fakeRecordsReader{})

	out, err := uc.Execute(context.Background(), usecase.GetRankingsInput{
		Window: domain.WindowSpec{Kind: domain.WindowDay},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Basis != domain.BasisAverage {
		t.Fatalf("expected average basis by default, got %s", out.Basis)
	}
	if len(out.Groups) != 2 || out.Groups[0].Group != "A" || out.Groups[1].Group != "B" {
		t.Fatalf("unexpected groups %+v", out.Groups)
	}

	a := out.Groups[0]
	if a.Consultations.TopGainer == nil || a.Consultations.TopGainer.Bot != "botX" {
		t.Fatalf("expected botX to win the tie, got %+v", a.Consultations.TopGainer)
	}
	if a.Consultations.TopLoser != nil {
		t.Fatalf("expected no loser in group A, got %+v", a.Consultations.TopLoser)
	}
	if a.Leads.TopGainer == nil || a.Leads.TopGainer.Bot != "botX" || a.Leads.TopGainer.PctChange != 200 {
		t.Fatalf("unexpected leads gainer %+v", a.Leads.TopGainer)
	}

	b := out.Groups[1]
	if b.Consultations.TopGainer == nil || b.Consultations.TopGainer.Bot != "botY" {
		t.Fatalf("expected botY as gainer in group B, got %+v", b.Consultations.TopGainer)
	}
}

func TestGetRankings_CustomRejected(t *testing.T) {
	reader := &fakeRecordsReader{}
	uc := usecase.NewGetRankingsUseCase(reader)

	_, err := uc.Execute(context.Background(), usecase.GetRankingsInput{
		Window: domain.WindowSpec{Kind: domain.WindowCustom},
	})
	if !errors.Is(err, domain.ErrNoPreviousWindow) {
		t.Fatalf("expected ErrNoPreviousWindow, got %v", err)
	}
	if reader.calls != 0 {
		t.Fatalf("records should not be loaded for an invalid request")
	}
}

func TestGetRankings_CancelledContext(t *testing.T) {
	uc := usecase.NewGetRankingsUseCase(&fakeRecordsReader{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, usecase.GetRankingsInput{Window: domain.WindowSpec{Kind: domain.WindowDay}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// ------------------------------------------------------------
// TREND
// ------------------------------------------------------------

func TestGetTrend(t *testing.T) {
	uc := usecase.NewGetTrendUseCase(&fakeRecordsReader{})

	out, err := uc.Execute(context.Background(), records.Selection{Groups: []string{"A"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Window == nil || !out.Window.Start.Equal(day("2024-02-26")) || !out.Window.End.Equal(day("2024-03-06")) {
		t.Fatalf("expected window to span matched data, got %v", out.Window)
	}
	if len(out.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(out.Points))
	}
	last := out.Points[3]
	if !last.Date.Equal(day("2024-03-06")) || last.Consultations != 15 || last.Leads != 3 {
		t.Fatalf("unexpected last point %+v", last)
	}
}

func TestGetTrend_DateRange(t *testing.T) {
	uc := usecase.NewGetTrendUseCase(&fakeRecordsReader{})

	from := day("2024-03-05")
	out, err := uc.Execute(context.Background(), records.Selection{From: &from, Bots: []string{"u_botX"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Points) != 2 || out.Points[0].Consultations != 6 {
		t.Fatalf("unexpected points %+v", out.Points)
	}
}

func TestGetTrend_NoMatch(t *testing.T) {
	uc := usecase.NewGetTrendUseCase(&fakeRecordsReader{})

	out, err := uc.Execute(context.Background(), records.Selection{Bots: []string{"nobody"}})
	if err != nil {
		t.Fatalf("empty trend is not an error, got %v", err)
	}
	if out.Window != nil || out.Points == nil || len(out.Points) != 0 {
		t.Fatalf("expected empty trend, got %+v", out)
	}
}

func TestGetTrend_ReversedRange(t *testing.T) {
	reader := &fakeRecordsReader{}
	uc := usecase.NewGetTrendUseCase(reader)

	from, to := day("2024-03-05"), day("2024-03-01")
	_, err := uc.Execute(context.Background(), records.Selection{From: &from, To: &to})
	if !errors.Is(err, domain.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if reader.calls != 0 {
		t.Fatalf("records should not be loaded for an invalid request")
	}
}

// ------------------------------------------------------------
// OVERVIEW
// ------------------------------------------------------------

func TestGetOverview(t *testing.T) {
	reader := &fakeRecordsReader{}
	uc := usecase.NewGetOverviewUseCase(reader)

	out, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("expected a single records load, got %d", reader.calls)
	}
	if out.Day == nil || out.Week == nil || out.Month == nil {
		t.Fatalf("expected all three cards, got %+v", out)
	}
	if out.Day.Totals.TotalConsultations != 17 || out.Week.Totals.TotalConsultations != 23 {
		t.Fatalf("unexpected day/week totals %+v / %+v", out.Day.Totals, out.Week.Totals)
	}
	if out.Month.Totals.TotalConsultations != 37 || out.Month.Totals.DayCount != 6 {
		t.Fatalf("unexpected month totals %+v", out.Month.Totals)
	}
	if out.Month.Comparison.Previous.TotalConsultations != 7 || out.Month.Comparison.Previous.DayCount != 29 {
		t.Fatalf("unexpected previous month %+v", out.Month.Comparison.Previous)
	}
	if out.Week.LastWeek == nil || out.Day.GroupBy != domain.GroupByGroup || len(out.Day.Keys) != 2 {
		t.Fatalf("unexpected card layout %+v", out.Day)
	}
}

func TestGetOverview_ReaderError(t *testing.T) {
	uc := usecase.NewGetOverviewUseCase(&fakeRecordsReader{
		LoadFn: func(ctx context.Context) ([]records.MetricRecord, error) {
			return nil, records.ErrDataUnavailable
		},
	})

	if _, err := uc.Execute(context.Background()); !errors.Is(err, records.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
