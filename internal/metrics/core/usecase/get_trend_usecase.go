package usecase

import (
	"context"
	"fmt"

	"bot-metrics-service/internal/metrics/core/domain"
	"bot-metrics-service/internal/metrics/core/ports"
	records "bot-metrics-service/internal/records/core/domain"
	recordsuc "bot-metrics-service/internal/records/core/usecase"
)

type Trend struct {
	// Window is nil when no record matched the selection.
	Window *domain.DateWindow
	Points []domain.TrendPoint
}

type GetTrendUseCase struct {
	reader ports.RecordsReaderPort
}

func NewGetTrendUseCase(reader ports.RecordsReaderPort) *GetTrendUseCase {
	return &GetTrendUseCase{reader: reader}
}

// Execute returns the daily consultations/leads series of the records that
// match sel. Open ends of the range default to the matched data.
func (uc *GetTrendUseCase) Execute(ctx context.Context, sel records.Selection) (*Trend, error) {
	if sel.From != nil && sel.To != nil && sel.From.After(*sel.To) {
		return nil, fmt.Errorf("%w: from is after to", domain.ErrInvalidWindow)
	}

	recs, err := uc.reader.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}

	matched := recordsuc.Filter(recs, sel)
	if len(matched) == 0 {
		return &Trend{Points: []domain.TrendPoint{}}, nil
	}

	start, end := matched[0].Date, matched[0].Date
	for _, r := range matched[1:] {
		if r.Date.Before(start) {
			start = r.Date
		}
		if r.Date.After(end) {
			end = r.Date
		}
	}
	if sel.From != nil {
		start = *sel.From
	}
	if sel.To != nil {
		end = *sel.To
	}

	w, err := domain.NewDateWindow(start, end)
	if err != nil {
		return nil, err
	}

	return &Trend{Window: &w, Points: domain.DailySeries(matched, w)}, nil
}
