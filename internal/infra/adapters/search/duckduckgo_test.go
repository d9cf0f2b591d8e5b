// File: internal/infra/adapters/search/duckduckgo_test.go
package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"fedup-chat/internal/infra/metrics"
)

func newServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		if got := r.URL.Query().Get("no_html"); got != "1" {
			t.Errorf("no_html = %q, want 1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestSearchPrefersAbstractText(t *testing.T) {
	srv := newServer(t, `{"AbstractText":"abstract","Definition":"def","Answer":"ans"}`)
	defer srv.Close()

	d := NewDuckDuckGo(srv.URL, time.Second)
	got, err := d.Search(context.Background(), "weather today")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got != "abstract" {
		t.Fatalf("result = %q, want %q", got, "abstract")
	}
}

func TestSearchFallsThroughToAnswer(t *testing.T) {
	srv := newServer(t, `{"AbstractText":"","Definition":"","Answer":"42"}`)
	defer srv.Close()

	d := NewDuckDuckGo(srv.URL, time.Second)
	got, err := d.Search(context.Background(), "what year")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got != "42" {
		t.Fatalf("result = %q, want %q", got, "42")
	}
}

func TestSearchEmptyWhenNoAnswer(t *testing.T) {
	srv := newServer(t, `{}`)
	defer srv.Close()

	d := NewDuckDuckGo(srv.URL, time.Second)
	got, err := d.Search(context.Background(), "obscure query")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got != "" {
		t.Fatalf("result = %q, want empty", got)
	}
}

func TestSearchCountsLookupOutcomes(t *testing.T) {
	metrics.MustRegister()

	hit := newServer(t, `{"AbstractText":"abstract"}`)
	defer hit.Close()
	miss := newServer(t, `{}`)
	defer miss.Close()

	if _, err := NewDuckDuckGo(hit.URL, time.Second).Search(context.Background(), "weather"); err != nil {
		t.Fatalf("hit lookup: %v", err)
	}
	if _, err := NewDuckDuckGo(miss.URL, time.Second).Search(context.Background(), "obscure"); err != nil {
		t.Fatalf("miss lookup: %v", err)
	}

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "search_lookups_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n < 2 {
		t.Fatalf("search_lookups_total series = %d, want at least 2", n)
	}
}

func TestSearchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.URL, time.Second)
	if _, err := d.Search(context.Background(), "anything"); err == nil {
		t.Fatal("want error on 500 response")
	}
}
