package fiber

import (
	"time"

	"bot-metrics-service/internal/metrics/core/domain"
	"bot-metrics-service/internal/metrics/core/usecase"
)

const dateLayout = time.DateOnly

type WindowResponse struct {
	Start string `json:"start" example:"2024-03-04"`
	End   string `json:"end" example:"2024-03-06"`
	Days  int    `json:"days" example:"3"`
}

type AggregateResponse struct {
	TotalConsultations int64   `json:"total_consultations"`
	TotalLeads         int64   `json:"total_leads"`
	DayCount           int     `json:"day_count"`
	AvgConsultations   float64 `json:"avg_consultations"`
	AvgLeads           float64 `json:"avg_leads"`
}

type ComparisonResponse struct {
	Previous               AggregateResponse `json:"previous"`
	DiffAvgConsultations   float64           `json:"diff_avg_consultations"`
	DiffAvgLeads           float64           `json:"diff_avg_leads"`
	PctChangeConsultations float64           `json:"pct_change_consultations"`
	PctChangeLeads         float64           `json:"pct_change_leads"`
}

type KeySummaryResponse struct {
	Key        string              `json:"key" example:"A/botX"`
	Group      string              `json:"group,omitempty"`
	Bot        string              `json:"bot,omitempty"`
	Product    string              `json:"product,omitempty"`
	Current    AggregateResponse   `json:"current"`
	Comparison *ComparisonResponse `json:"comparison,omitempty"`
}

type WeekBenchmarkResponse struct {
	Window WindowResponse    `json:"window"`
	Result AggregateResponse `json:"result"`
}

type SummaryResponse struct {
	Kind             string                 `json:"kind" example:"week"`
	Reference        string                 `json:"reference" example:"2024-03-06"`
	Current          WindowResponse         `json:"current"`
	Previous         *WindowResponse        `json:"previous,omitempty"`
	Totals           AggregateResponse      `json:"totals"`
	Comparison       *ComparisonResponse    `json:"comparison,omitempty"`
	GroupBy          string                 `json:"group_by" example:"group"`
	Keys             []KeySummaryResponse   `json:"keys,omitempty"`
	LastCompleteWeek *WeekBenchmarkResponse `json:"last_complete_week,omitempty"`
}

type RankEntryResponse struct {
	Bot       string  `json:"bot"`
	PctChange float64 `json:"pct_change"`
	DiffAvg   float64 `json:"diff_avg"`
	DiffTotal int64   `json:"diff_total"`
}

// RankingResponse sides are null when no bot moved in that direction.
type RankingResponse struct {
	TopGainer *RankEntryResponse `json:"top_gainer"`
	TopLoser  *RankEntryResponse `json:"top_loser"`
}

type GroupRankingsResponse struct {
	Group         string          `json:"group"`
	Consultations RankingResponse `json:"consultations"`
	Leads         RankingResponse `json:"leads"`
}

type RankingsResponse struct {
	Kind      string                  `json:"kind"`
	Reference string                  `json:"reference"`
	Current   WindowResponse          `json:"current"`
	Previous  WindowResponse          `json:"previous"`
	Basis     string                  `json:"basis" example:"average"`
	Groups    []GroupRankingsResponse `json:"groups"`
}

type TrendPointResponse struct {
	Date          string `json:"date" example:"2024-03-01"`
	Consultations int64  `json:"consultations"`
	Leads         int64  `json:"leads"`
}

type TrendResponse struct {
	Window *WindowResponse      `json:"window"`
	Points []TrendPointResponse `json:"points"`
}

type OverviewResponse struct {
	Reference string          `json:"reference"`
	Day       SummaryResponse `json:"day"`
	Week      SummaryResponse `json:"week"`
	Month     SummaryResponse `json:"month"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"rolling window days out of range"`
}

func toWindow(w domain.DateWindow) WindowResponse {
	return WindowResponse{Start: w.Start.Format(dateLayout), End: w.End.Format(dateLayout), Days: w.Days()}
}

func toAggregate(a domain.AggregateResult) AggregateResponse {
	return AggregateResponse{
		TotalConsultations: a.TotalConsultations,
		TotalLeads:         a.TotalLeads,
		DayCount:           a.DayCount,
		AvgConsultations:   a.AvgConsultations,
		AvgLeads:           a.AvgLeads,
	}
}

func toComparison(c *domain.ComparisonResult) *ComparisonResponse {
	if c == nil {
		return nil
	}
	return &ComparisonResponse{
		Previous:               toAggregate(c.Previous),
		DiffAvgConsultations:   c.DiffAvgConsultations,
		DiffAvgLeads:           c.DiffAvgLeads,
		PctChangeConsultations: c.PctChangeConsultations,
		PctChangeLeads:         c.PctChangeLeads,
	}
}

func toSummary(s *usecase.Summary) SummaryResponse {
	resp := SummaryResponse{
		Kind:       string(s.Kind),
		Reference:  s.Reference.Format(dateLayout),
		Current:    toWindow(s.Current),
		Totals:     toAggregate(s.Totals),
		Comparison: toComparison(s.Comparison),
		GroupBy:    string(s.GroupBy),
	}
	if s.Previous != nil {
		w := toWindow(*s.Previous)
		resp.Previous = &w
	}
	for _, k := range s.Keys {
		resp.Keys = append(resp.Keys, KeySummaryResponse{
			Key:        k.Key.String(),
			Group:      k.Key.Group,
			Bot:        k.Key.Bot,
			Product:    k.Key.Product,
			Current:    toAggregate(k.Current),
			Comparison: toComparison(k.Comparison),
		})
	}
	if s.LastWeek != nil {
		resp.LastCompleteWeek = &WeekBenchmarkResponse{
			Window: toWindow(s.LastWeek.Window),
			Result: toAggregate(s.LastWeek.Result),
		}
	}
	return resp
}

func toRankEntry(e *domain.RankEntry) *RankEntryResponse {
	if e == nil {
		return nil
	}
	return &RankEntryResponse{Bot: e.Bot, PctChange: e.PctChange, DiffAvg: e.DiffAvg, DiffTotal: e.DiffTotal}
}

func toRanking(r domain.Ranking) RankingResponse {
	return RankingResponse{TopGainer: toRankEntry(r.TopGainer), TopLoser: toRankEntry(r.TopLoser)}
}
