package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"bot-metrics-service/internal/records/core/domain"
)

const DefaultDateLayout = "2006-01-02"

type NormalizeOptions struct {
	DateLayout   string // defaults to DefaultDateLayout
	DefaultGroup string // defaults to domain.DefaultGroup
}

type NormalizeResult struct {
	Records []domain.MetricRecord
	Dropped int // rows removed because the date did not parse
	Zeroed  int // kept rows with at least one counter forced to 0
}

// Normalize turns raw sheet rows into metric records sorted by date.
// It fails only when the mapping is unusable, when there are no rows at all,
// or when no row survives date parsing.
func Normalize(rows []domain.RawRow, mapping domain.ColumnMapping, opts NormalizeOptions) (NormalizeResult, error) {
	var res NormalizeResult

	if err := mapping.Validate(nil); err != nil {
		return res, err
	}
	if len(rows) == 0 {
		return res, domain.ErrDataUnavailable
	}

	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	defaultGroup := opts.DefaultGroup
	if defaultGroup == "" {
		defaultGroup = domain.DefaultGroup
	}

	out := make([]domain.MetricRecord, 0, len(rows))
	for _, row := range rows {
		date, ok := parseDate(row[mapping[domain.FieldDate]], layout)
		if !ok {
			res.Dropped++
			continue
		}

		consultations, okC := parseCount(row[mapping[domain.FieldConsultations]])
		leads, okL := parseCount(row[mapping[domain.FieldLeads]])
		if !okC || !okL {
			res.Zeroed++
		}

		username := cellString(row, mapping[domain.FieldBotUsername])
		noteName := cellString(row, mapping[domain.FieldBotNoteName])
		if noteName == "" {
			noteName = username
		}
		group := cellString(row, mapping[domain.FieldGroup])
		if group == "" {
			group = defaultGroup
		}

		out = append(out, domain.MetricRecord{
			Date:          date,
			BotUsername:   username,
			BotNoteName:   noteName,
			Product:       cellString(row, mapping[domain.FieldProduct]),
			Group:         group,
			Consultations: consultations,
			Leads:         leads,
		})
	}

	if len(out) == 0 {
		return res, fmt.Errorf("%w: none of %d rows has a %s date", domain.ErrConfiguration, len(rows), layout)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	res.Records = out
	return res, nil
}

func parseDate(cell any, layout string) (time.Time, bool) {
	s, ok := cell.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// parseCount reads a non-negative integer counter. The bool is false when the
// cell had to be replaced by 0.
func parseCount(cell any) (int64, bool) {
	var f float64
	switch v := cell.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}

	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= float64(math.MaxInt64) {
		return 0, false
	}
	return int64(f), true
}

func cellString(row domain.RawRow, header string) string {
	if header == "" {
		return ""
	}
	switch v := row[header].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
