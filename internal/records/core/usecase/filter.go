package usecase

import (
	"strings"

	"bot-metrics-service/internal/records/core/domain"

	"github.com/samber/lo"
)

// Filter returns the records matching every criterion of sel, in input order.
// A bot criterion matches either the username or the note name.
func Filter(records []domain.MetricRecord, sel domain.Selection) []domain.MetricRecord {
	groups := toSet(sel.Groups)
	bots := toSet(sel.Bots)
	products := toSet(sel.Products)

	out := make([]domain.MetricRecord, 0, len(records))
	for _, r := range records {
		if sel.From != nil && r.Date.Before(*sel.From) {
			continue
		}
		if sel.To != nil && r.Date.After(*sel.To) {
			continue
		}
		if groups != nil && !groups[r.Group] {
			continue
		}
		if bots != nil && !bots[r.BotUsername] && !bots[r.BotNoteName] {
			continue
		}
		if products != nil && !products[r.Product] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// toSet returns nil for an empty selection, meaning "match all".
func toSet(values []string) map[string]bool {
	cleaned := lo.Uniq(lo.Compact(lo.Map(values, func(v string, _ int) string {
		return strings.TrimSpace(v)
	})))
	if len(cleaned) == 0 {
		return nil
	}
	return lo.SliceToMap(cleaned, func(v string) (string, bool) {
		return v, true
	})
}
