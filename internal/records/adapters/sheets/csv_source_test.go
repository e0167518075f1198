package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bot-metrics-service/internal/records/core/domain"
)

func serveCSV(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCSVSource_FetchSnapshot(t *testing.T) {
	body := "\ufeff日期,机器人,,咨询量,线索\n" +
		"2024-03-01,bot_x,ignored,\"1,204\",3\n" +
		",,,,\n" +
		"2024-03-02,bot_y,,7\n"

	srv := serveCSV(t, http.StatusOK, body)

	src := NewCSVSource(srv.URL, "sheet-1", srv.Client())

	snap, err := src.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantHeaders := []string{"日期", "机器人", "咨询量", "线索"}
	if len(snap.Headers) != len(wantHeaders) {
		t.Fatalf("expected headers %v, got %v", wantHeaders, snap.Headers)
	}
	for i := range wantHeaders {
		if snap.Headers[i] != wantHeaders[i] {
			t.Fatalf("expected headers %v, got %v", wantHeaders, snap.Headers)
		}
	}

	if len(snap.Rows) != 2 {
		t.Fatalf("expected blank row to be skipped, got %d rows", len(snap.Rows))
	}
	if snap.Rows[0]["咨询量"] != "1,204" {
		t.Fatalf("expected raw cell kept, got %v", snap.Rows[0]["咨询量"])
	}
	if _, ok := snap.Rows[1]["线索"]; ok {
		t.Fatalf("short row should leave missing cells out, got %v", snap.Rows[1])
	}
	if snap.SheetKey != "sheet-1" || snap.FetchedAt.IsZero() {
		t.Fatalf("unexpected snapshot metadata: %+v", snap)
	}
}

func TestCSVSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http_error", http.StatusInternalServerError, "oops"},
		{"empty_body", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveCSV(t, tt.status, tt.body)

			_, err := NewCSVSource(srv.URL, "sheet-1", nil).FetchSnapshot(context.Background())
			if !errors.Is(err, domain.ErrDataUnavailable) {
				t.Fatalf("expected ErrDataUnavailable, got %v", err)
			}
		})
	}
}

func TestCSVSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewCSVSource(url, "sheet-1", nil).FetchSnapshot(context.Background())
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
