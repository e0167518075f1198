package usecase

import (
	"context"
	"time"

	"bot-metrics-service/internal/metrics/core/domain"
	"bot-metrics-service/internal/metrics/core/ports"
	records "bot-metrics-service/internal/records/core/domain"
)

type GetSummaryInput struct {
	Window  domain.WindowSpec
	GroupBy domain.GroupBy
}

type KeySummary struct {
	Key        domain.GroupKey
	Current    domain.AggregateResult
	Comparison *domain.ComparisonResult // nil for custom windows
}

// WeekBenchmark is the fixed last-complete-week figure reported next to
// week-to-date summaries.
type WeekBenchmark struct {
	Window domain.DateWindow
	Result domain.AggregateResult
}

type Summary struct {
	Kind       domain.WindowKind
	Reference  time.Time
	Current    domain.DateWindow
	Previous   *domain.DateWindow
	Totals     domain.AggregateResult
	Comparison *domain.ComparisonResult
	GroupBy    domain.GroupBy
	Keys       []KeySummary
	LastWeek   *WeekBenchmark
}

type GetSummaryUseCase struct {
	reader ports.RecordsReaderPort
}

func NewGetSummaryUseCase(reader ports.RecordsReaderPort) *GetSummaryUseCase {
	return &GetSummaryUseCase{reader: reader}
}

func (uc *GetSummaryUseCase) Execute(ctx context.Context, in GetSummaryInput) (*Summary, error) {
	if in.GroupBy == "" {
		in.GroupBy = domain.GroupByNone
	}

	recs, ref, err := loadWithReference(ctx, uc.reader)
	if err != nil {
		return nil, err
	}

	return summarize(recs, ref, in.Window, in.GroupBy)
}

// loadWithReference loads the records and the date every window is anchored to.
func loadWithReference(ctx context.Context, reader ports.RecordsReaderPort) ([]records.MetricRecord, time.Time, error) {
	recs, err := reader.LoadRecords(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	ref, ok := domain.ReferenceDate(recs)
	if !ok {
		return nil, time.Time{}, records.ErrDataUnavailable
	}
	return recs, ref, nil
}

func summarize(recs []records.MetricRecord, ref time.Time, spec domain.WindowSpec, by domain.GroupBy) (*Summary, error) {
	res, err := domain.Resolve(spec, ref)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		Kind:      spec.Kind,
		Reference: ref,
		Current:   res.Current,
		Previous:  res.Previous,
		Totals:    domain.Aggregate(recs, res.Current),
		GroupBy:   by,
	}

	if res.Previous == nil {
		if by != domain.GroupByNone {
			for _, g := range domain.AggregateBy(recs, res.Current, by) {
				out.Keys = append(out.Keys, KeySummary{Key: g.Key, Current: g.Result})
			}
		}
		return out, nil
	}

	cmp := domain.Compare(out.Totals, domain.Aggregate(recs, *res.Previous))
	out.Comparison = &cmp

	if by != domain.GroupByNone {
		keys, err := domain.CompareBy(recs, res, by)
		if err != nil {
			return nil, err
		}
		out.Keys = make([]KeySummary, 0, len(keys))
		for _, k := range keys {
			c := k.Comparison
			out.Keys = append(out.Keys, KeySummary{Key: k.Key, Current: c.Current, Comparison: &c})
		}
	}

	if spec.Kind == domain.WindowWeek {
		w := domain.LastCompleteWeek(ref)
		out.LastWeek = &WeekBenchmark{Window: w, Result: domain.Aggregate(recs, w)}
	}

	return out, nil
}
