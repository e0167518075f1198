package sheets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bot-metrics-service/internal/records/core/domain"
	"bot-metrics-service/internal/records/core/ports"
)

const defaultTimeout = 30 * time.Second

// CSVSource reads a spreadsheet published as CSV (for Google Sheets, the
// "export?format=csv" link of the sheet).
type CSVSource struct {
	url      string
	sheetKey string
	client   *http.Client
	now      func() time.Time
}

var _ ports.SnapshotReaderPort = (*CSVSource)(nil)

func NewCSVSource(url, sheetKey string, client *http.Client) *CSVSource {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &CSVSource{
		url:      url,
		sheetKey: sheetKey,
		client:   client,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *CSVSource) FetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sheet export returned %s", domain.ErrDataUnavailable, resp.Status)
	}

	headers, rows, err := parseCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	return &domain.Snapshot{
		SheetKey:  s.sheetKey,
		Headers:   headers,
		Rows:      rows,
		FetchedAt: s.now(),
	}, nil
}

func parseCSV(r io.Reader) ([]string, []domain.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, domain.ErrDataUnavailable
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}

	// Columns without a header are decoration (notes, totals) and are skipped.
	var (
		headers []string
		cols    []int
	)
	seen := make(map[string]bool, len(head))
	for i, h := range head {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		headers = append(headers, h)
		cols = append(cols, i)
	}

	var rows []domain.RawRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		row := make(domain.RawRow, len(cols))
		empty := true
		for j, col := range cols {
			if col >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[col])
			if cell == "" {
				continue
			}
			row[headers[j]] = cell
			empty = false
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}
