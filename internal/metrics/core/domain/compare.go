package domain

import records "bot-metrics-service/internal/records/core/domain"

type ComparisonResult struct {
	Current                AggregateResult
	Previous               AggregateResult
	DiffAvgConsultations   float64
	DiffAvgLeads           float64
	PctChangeConsultations float64
	PctChangeLeads         float64
}

// PctChange is the relative change of totals in percent. A zero previous
// total yields 0 when current is also zero and a flat 100 otherwise.
func PctChange(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}

func Compare(current, previous AggregateResult) ComparisonResult {
	return ComparisonResult{
		Current:                current,
		Previous:               previous,
		DiffAvgConsultations:   current.AvgConsultations - previous.AvgConsultations,
		DiffAvgLeads:           current.AvgLeads - previous.AvgLeads,
		PctChangeConsultations: PctChange(current.TotalConsultations, previous.TotalConsultations),
		PctChangeLeads:         PctChange(current.TotalLeads, previous.TotalLeads),
	}
}

func (c ComparisonResult) DiffAvg(m Metric) float64 {
	if m == MetricLeads {
		return c.DiffAvgLeads
	}
	return c.DiffAvgConsultations
}

func (c ComparisonResult) DiffTotal(m Metric) int64 {
	return c.Current.Total(m) - c.Previous.Total(m)
}

func (c ComparisonResult) PctChange(m Metric) float64 {
	if m == MetricLeads {
		return c.PctChangeLeads
	}
	return c.PctChangeConsultations
}

type KeyComparison struct {
	Key        GroupKey
	Comparison ComparisonResult
}

// CompareBy compares every key seen in either window of res. Keys present on
// one side only are compared against that window's empty aggregate. Order is
// first appearance in the current window, then in the previous one.
func CompareBy(recs []records.MetricRecord, res Resolution, by GroupBy) ([]KeyComparison, error) {
	if res.Previous == nil {
		return nil, ErrNoPreviousWindow
	}

	cur := AggregateBy(recs, res.Current, by)
	prev := AggregateBy(recs, *res.Previous, by)

	prevByKey := make(map[GroupKey]AggregateResult, len(prev))
	for _, g := range prev {
		prevByKey[g.Key] = g.Result
	}

	out := make([]KeyComparison, 0, len(cur)+len(prev))
	seen := make(map[GroupKey]bool, len(cur))
	for _, g := range cur {
		p, ok := prevByKey[g.Key]
		if !ok {
			p = EmptyAggregate(*res.Previous)
		}
		seen[g.Key] = true
		out = append(out, KeyComparison{Key: g.Key, Comparison: Compare(g.Result, p)})
	}
	for _, g := range prev {
		if seen[g.Key] {
			continue
		}
		out = append(out, KeyComparison{Key: g.Key, Comparison: Compare(EmptyAggregate(res.Current), g.Result)})
	}
	return out, nil
}
