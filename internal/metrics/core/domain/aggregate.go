package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	records "bot-metrics-service/internal/records/core/domain"
)

var ErrInvalidGroupBy = errors.New("invalid group_by value")

type AggregateResult struct {
	TotalConsultations int64
	TotalLeads         int64
	DayCount           int
	AvgConsultations   float64
	AvgLeads           float64
}

// EmptyAggregate is the all-zero result for w, with its day count kept.
func EmptyAggregate(w DateWindow) AggregateResult {
	return AggregateResult{DayCount: w.Days()}
}

func (a AggregateResult) Total(m Metric) int64 {
	if m == MetricLeads {
		return a.TotalLeads
	}
	return a.TotalConsultations
}

func (a AggregateResult) Avg(m Metric) float64 {
	if m == MetricLeads {
		return a.AvgLeads
	}
	return a.AvgConsultations
}

func (a *AggregateResult) add(r records.MetricRecord) {
	a.TotalConsultations += r.Consultations
	a.TotalLeads += r.Leads
}

func (a *AggregateResult) finish() {
	days := float64(a.DayCount)
	a.AvgConsultations = float64(a.TotalConsultations) / days
	a.AvgLeads = float64(a.TotalLeads) / days
}

// Aggregate sums the records dated inside w and averages them over the
// days of w.
func Aggregate(recs []records.MetricRecord, w DateWindow) AggregateResult {
	res := EmptyAggregate(w)
	for _, r := range recs {
		if w.Contains(r.Date) {
			res.add(r)
		}
	}
	res.finish()
	return res
}

type GroupBy string

const (
	GroupByNone     GroupBy = "none"
	GroupByGroup    GroupBy = "group"
	GroupByBot      GroupBy = "bot" // group + note name
	GroupByUsername GroupBy = "username"
	GroupByProduct  GroupBy = "product"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case "":
		return GroupByNone, nil
	case GroupByNone, GroupByGroup, GroupByBot, GroupByUsername, GroupByProduct:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGroupBy, s)
}

// GroupKey identifies one aggregation bucket. Fields that the GroupBy does
// not use stay empty.
type GroupKey struct {
	Group   string
	Bot     string
	Product string
}

func (k GroupKey) String() string {
	switch {
	case k.Group != "" && k.Bot != "":
		return k.Group + "/" + k.Bot
	case k.Bot != "":
		return k.Bot
	case k.Product != "":
		return k.Product
	}
	return k.Group
}

func keyOf(r records.MetricRecord, by GroupBy) GroupKey {
	switch by {
	case GroupByGroup:
		return GroupKey{Group: r.Group}
	case GroupByBot:
		return GroupKey{Group: r.Group, Bot: r.BotNoteName}
	case GroupByUsername:
		return GroupKey{Group: r.Group, Bot: r.BotUsername}
	case GroupByProduct:
		return GroupKey{Product: r.Product}
	}
	return GroupKey{}
}

type GroupAggregate struct {
	Key    GroupKey
	Result AggregateResult
}

// AggregateBy returns one aggregate per key observed inside w, ordered by
// first appearance. Keys with no records in w are not reported.
func AggregateBy(recs []records.MetricRecord, w DateWindow, by GroupBy) []GroupAggregate {
	var (
		out   []GroupAggregate
		index = map[GroupKey]int{}
	)
	for _, r := range recs {
		if !w.Contains(r.Date) {
			continue
		}
		k := keyOf(r, by)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, GroupAggregate{Key: k, Result: EmptyAggregate(w)})
		}
		out[i].Result.add(r)
	}
	for i := range out {
		out[i].Result.finish()
	}
	return out
}

type TrendPoint struct {
	Date          time.Time
	Consultations int64
	Leads         int64
}

// DailySeries sums the records of each date inside w, ascending by date.
// Dates without records are absent.
func DailySeries(recs []records.MetricRecord, w DateWindow) []TrendPoint {
	byDate := map[time.Time]*TrendPoint{}
	for _, r := range recs {
		if !w.Contains(r.Date) {
			continue
		}
		d := Day(r.Date)
		p, ok := byDate[d]
		if !ok {
			p = &TrendPoint{Date: d}
			byDate[d] = p
		}
		p.Consultations += r.Consultations
		p.Leads += r.Leads
	}

	out := make([]TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
