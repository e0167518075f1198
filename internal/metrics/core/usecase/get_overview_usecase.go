package usecase

import (
	"context"
	"time"

	"bot-metrics-service/internal/metrics/core/domain"
	"bot-metrics-service/internal/metrics/core/ports"

	"golang.org/x/sync/errgroup"
)

// Overview carries the dashboard's today, week-to-date and month-to-date
// cards, broken down by group.
type Overview struct {
	Reference time.Time
	Day       *Summary
	Week      *Summary
	Month     *Summary
}

type GetOverviewUseCase struct {
	reader ports.RecordsReaderPort
}

func NewGetOverviewUseCase(reader ports.RecordsReaderPort) *GetOverviewUseCase {
	return &GetOverviewUseCase{reader: reader}
}

func (uc *GetOverviewUseCase) Execute(ctx context.Context) (*Overview, error) {
	recs, ref, err := loadWithReference(ctx, uc.reader)
	if err != nil {
		return nil, err
	}

	out := &Overview{Reference: ref}
	cards := []struct {
		kind domain.WindowKind
		dst  **Summary
	}{
		{domain.WindowDay, &out.Day},
		{domain.WindowWeek, &out.Week},
		{domain.WindowMonth, &out.Month},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range cards {
		c := c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := summarize(recs, ref, domain.WindowSpec{Kind: c.kind}, domain.GroupByGroup)
			if err != nil {
				return err
			}
			*c.dst = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
