package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFMPQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"symbol":"ABCD","price":12.34,"marketCap":1234000000,"sharesFloat":4500000}]`))
	}))
	defer server.Close()

	p := NewFMPProvider(server.URL, "test-key")

	quote, err := p.Quote(context.Background(), "ABCD")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	if got := FormatPrice(quote.Price); got != "$12.34" {
		t.Errorf("price = %s, want $12.34", got)
	}
	if got := FormatCompact(quote.MarketCap); got != "1.23B" {
		t.Errorf("marketCap = %s, want 1.23B", got)
	}
	if got := FormatCompact(quote.Float); got != "4.50M" {
		t.Errorf("float = %s, want 4.50M", got)
	}
}

func TestFMPQuotePartialPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"ABCD","price":12.34}]`))
	}))
	defer server.Close()

	p := NewFMPProvider(server.URL, "test-key")

	quote, err := p.Quote(context.Background(), "ABCD")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.Price == nil {
		t.Error("Price absent, want present")
	}
	if quote.MarketCap != nil {
		t.Error("MarketCap present, want absent")
	}
	if got := FormatCompact(quote.MarketCap); got != NA {
		t.Errorf("FormatCompact(absent) = %s, want %s", got, NA)
	}
}

func TestFMPQuoteErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		p := NewFMPProvider("http://unused.invalid", "")
		if _, err := p.Quote(context.Background(), "ABCD"); err == nil {
			t.Error("Quote without key: err = nil, want error")
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		p := NewFMPProvider(server.URL, "test-key")
		if _, err := p.Quote(context.Background(), "ABCD"); err == nil {
			t.Error("Quote on 429: err = nil, want error")
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		p := NewFMPProvider(server.URL, "test-key")
		if _, err := p.Quote(context.Background(), "ABCD"); err == nil {
			t.Error("Quote on empty payload: err = nil, want error")
		}
	})
}
