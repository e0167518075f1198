package domain

import (
	"errors"
	"fmt"

	records "bot-metrics-service/internal/records/core/domain"
)

var (
	ErrInvalidRankBasis = errors.New("invalid rank basis")
	ErrNoPreviousWindow = errors.New("window has no previous period to compare against")
)

type Metric string

const (
	MetricConsultations Metric = "consultations"
	MetricLeads         Metric = "leads"
)

// RankBasis decides which difference qualifies a bot as gainer or loser.
type RankBasis string

const (
	BasisAverage RankBasis = "average" // day-normalized averages
	BasisTotal   RankBasis = "total"   // raw totals
)

func ParseRankBasis(s string) (RankBasis, error) {
	switch b := RankBasis(s); b {
	case "":
		return BasisAverage, nil
	case BasisAverage, BasisTotal:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRankBasis, s)
}

type BotComparison struct {
	Bot        string
	Comparison ComparisonResult
}

type RankEntry struct {
	Bot       string
	PctChange float64
	DiffAvg   float64
	DiffTotal int64
}

// Ranking holds the extremes of one metric. A nil side means no bot moved
// in that direction.
type Ranking struct {
	Metric    Metric
	TopGainer *RankEntry
	TopLoser  *RankEntry
}

// Rank picks the bot with the largest positive and the largest negative
// percentage change. Bots whose difference is zero qualify for neither side;
// ties go to the earlier entry.
func Rank(entries []BotComparison, metric Metric, basis RankBasis) Ranking {
	out := Ranking{Metric: metric}

	for _, e := range entries {
		c := e.Comparison

		var diff float64
		if basis == BasisTotal {
			diff = float64(c.DiffTotal(metric))
		} else {
			diff = c.DiffAvg(metric)
		}

		entry := RankEntry{
			Bot:       e.Bot,
			PctChange: c.PctChange(metric),
			DiffAvg:   c.DiffAvg(metric),
			DiffTotal: c.DiffTotal(metric),
		}

		switch {
		case diff > 0:
			if out.TopGainer == nil || entry.PctChange > out.TopGainer.PctChange {
				out.TopGainer = &entry
			}
		case diff < 0:
			if out.TopLoser == nil || entry.PctChange < out.TopLoser.PctChange {
				out.TopLoser = &entry
			}
		}
	}

	return out
}

type GroupRanking struct {
	Group     string
	Metric    Metric
	TopGainer *RankEntry
	TopLoser  *RankEntry
}

// GroupBots splits the per-bot comparisons of res by group, keeping the order
// in which groups and bots first appear.
func GroupBots(recs []records.MetricRecord, res Resolution) ([]string, map[string][]BotComparison, error) {
	cmp, err := CompareBy(recs, res, GroupByBot)
	if err != nil {
		return nil, nil, err
	}

	var groups []string
	byGroup := map[string][]BotComparison{}
	for _, kc := range cmp {
		g := kc.Key.Group
		if _, ok := byGroup[g]; !ok {
			groups = append(groups, g)
		}
		byGroup[g] = append(byGroup[g], BotComparison{Bot: kc.Key.Bot, Comparison: kc.Comparison})
	}
	return groups, byGroup, nil
}

// PartitionByGroup splits the records falling inside either window of res by
// group. Groups are ordered by first appearance in the current window, then
// in the previous one, matching GroupBots.
func PartitionByGroup(recs []records.MetricRecord, res Resolution) ([]string, map[string][]records.MetricRecord, error) {
	if res.Previous == nil {
		return nil, nil, ErrNoPreviousWindow
	}

	var groups []string
	parts := map[string][]records.MetricRecord{}
	for _, w := range []DateWindow{res.Current, *res.Previous} {
		for _, r := range recs {
			if !w.Contains(r.Date) {
				continue
			}
			if _, ok := parts[r.Group]; !ok {
				groups = append(groups, r.Group)
				parts[r.Group] = nil
			}
		}
	}
	for _, r := range recs {
		if _, ok := parts[r.Group]; ok && (res.Current.Contains(r.Date) || res.Previous.Contains(r.Date)) {
			parts[r.Group] = append(parts[r.Group], r)
		}
	}
	return groups, parts, nil
}

// RankGroups ranks the bots of every group for metric.
func RankGroups(recs []records.MetricRecord, res Resolution, metric Metric, basis RankBasis) ([]GroupRanking, error) {
	groups, byGroup, err := GroupBots(recs, res)
	if err != nil {
		return nil, err
	}

	out := make([]GroupRanking, 0, len(groups))
	for _, g := range groups {
		r := Rank(byGroup[g], metric, basis)
		out = append(out, GroupRanking{
			Group:     g,
			Metric:    metric,
			TopGainer: r.TopGainer,
			TopLoser:  r.TopLoser,
		})
	}
	return out, nil
}
