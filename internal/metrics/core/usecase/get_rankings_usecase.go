package usecase

import (
	"context"
	"time"

	"bot-metrics-service/internal/metrics/core/domain"
	"bot-metrics-service/internal/metrics/core/ports"

	"golang.org/x/sync/errgroup"
)

type GetRankingsInput struct {
	Window domain.WindowSpec
	Basis  domain.RankBasis
}

// GroupRankings holds the gainer/loser pair of each metric for one group.
type GroupRankings struct {
	Group         string
	Consultations domain.Ranking
	Leads         domain.Ranking
}

type Rankings struct {
	Kind      domain.WindowKind
	Reference time.Time
	Current   domain.DateWindow
	Previous  domain.DateWindow
	Basis     domain.RankBasis
	Groups    []GroupRankings
}

type GetRankingsUseCase struct {
	reader ports.RecordsReaderPort
}

func NewGetRankingsUseCase(reader ports.RecordsReaderPort) *GetRankingsUseCase {
	return &GetRankingsUseCase{reader: reader}
}

func (uc *GetRankingsUseCase) Execute(ctx context.Context, in GetRankingsInput) (*Rankings, error) {
	if in.Basis == "" {
		in.Basis = domain.BasisAverage
	}
	if in.Window.Kind == domain.WindowCustom {
		return nil, domain.ErrNoPreviousWindow
	}

	recs, ref, err := loadWithReference(ctx, uc.reader)
	if err != nil {
		return nil, err
	}

	res, err := domain.Resolve(in.Window, ref)
	if err != nil {
		return nil, err
	}

	groups, parts, err := domain.PartitionByGroup(recs, res)
	if err != nil {
		return nil, err
	}

	out := &Rankings{
		Kind:      in.Window.Kind,
		Reference: ref,
		Current:   res.Current,
		Previous:  *res.Previous,
		Basis:     in.Basis,
		Groups:    make([]GroupRankings, len(groups)),
	}

	// each group is aggregated, compared and ranked on its own
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range groups {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, byGroup, err := domain.GroupBots(parts[name], res)
			if err != nil {
				return err
			}
			bots := byGroup[name]
			out.Groups[i] = GroupRankings{
				Group:         name,
				Consultations: domain.Rank(bots, domain.MetricConsultations, in.Basis),
				Leads:         domain.Rank(bots, domain.MetricLeads, in.Basis),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
