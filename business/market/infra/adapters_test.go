package infra

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelDebug, "test", nil)
}

func depthServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	}))
}

func assertBook(t *testing.T, book *domain.OrderBook, wantAsks, wantBids []domain.Level) {
	t.Helper()

	if len(book.Asks) != len(wantAsks) {
		t.Fatalf("asks = %v, want %v", book.Asks, wantAsks)
	}
	for i, l := range wantAsks {
		if book.Asks[i] != l {
			t.Errorf("ask %d = %v, want %v", i, book.Asks[i], l)
		}
	}

	if len(book.Bids) != len(wantBids) {
		t.Fatalf("bids = %v, want %v", book.Bids, wantBids)
	}
	for i, l := range wantBids {
		if book.Bids[i] != l {
			t.Errorf("bid %d = %v, want %v", i, book.Bids[i], l)
		}
	}
}

func TestBitstampAdapterNormalizesDepth(t *testing.T) {
	// Quoted prices, asks deliberately out of order.
	srv := depthServer(t, `{
		"asks": [["20.60", "0.50"], ["20.50", "1.00"]],
		"bids": [["20.30", "2.00"], ["20.40", "0.25"]]
	}`)
	defer srv.Close()

	adapter, err := NewBitstampAdapter(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	book, err := adapter.FetchOrderBook(context.Background())
	if err != nil {
		t.Fatalf("FetchOrderBook() error = %v", err)
	}

	assertBook(t, book,
		[]domain.Level{{Price: 2050, Amount: 100_000_000}, {Price: 2060, Amount: 50_000_000}},
		[]domain.Level{{Price: 2040, Amount: 25_000_000}, {Price: 2030, Amount: 200_000_000}},
	)
}

func TestBTCEAdapterParsesBareNumbers(t *testing.T) {
	srv := depthServer(t, `{
		"asks": [[20.5, 1.0]],
		"bids": [[20.4, 0.25]]
	}`)
	defer srv.Close()

	adapter, err := NewBTCEAdapter(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	book, err := adapter.FetchOrderBook(context.Background())
	if err != nil {
		t.Fatalf("FetchOrderBook() error = %v", err)
	}

	assertBook(t, book,
		[]domain.Level{{Price: 2050, Amount: 100_000_000}},
		[]domain.Level{{Price: 2040, Amount: 25_000_000}},
	)
}

func TestCampBXAdapterParsesCapitalizedKeys(t *testing.T) {
	srv := depthServer(t, `{
		"Asks": [["20.50", "1.00"]],
		"Bids": [["20.40", "0.25"]]
	}`)
	defer srv.Close()

	adapter, err := NewCampBXAdapter(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	book, err := adapter.FetchOrderBook(context.Background())
	if err != nil {
		t.Fatalf("FetchOrderBook() error = %v", err)
	}

	assertBook(t, book,
		[]domain.Level{{Price: 2050, Amount: 100_000_000}},
		[]domain.Level{{Price: 2040, Amount: 25_000_000}},
	)
}

func TestMtGoxAdapterParsesEnvelope(t *testing.T) {
	srv := depthServer(t, `{
		"result": "success",
		"data": {
			"asks": [{"price": "20.50", "amount": "1.00"}],
			"bids": [{"price": 20.40, "amount": 0.25}]
		}
	}`)
	defer srv.Close()

	adapter, err := NewMtGoxAdapter(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	book, err := adapter.FetchOrderBook(context.Background())
	if err != nil {
		t.Fatalf("FetchOrderBook() error = %v", err)
	}

	assertBook(t, book,
		[]domain.Level{{Price: 2050, Amount: 100_000_000}},
		[]domain.Level{{Price: 2040, Amount: 25_000_000}},
	)
}

func TestMtGoxAdapterRejectsErrorEnvelope(t *testing.T) {
	srv := depthServer(t, `{"result": "error", "data": {}}`)
	defer srv.Close()

	adapter, err := NewMtGoxAdapter(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := adapter.FetchOrderBook(context.Background()); err == nil {
		t.Fatal("FetchOrderBook() should fail on an error envelope")
	}
}

func TestAdapterRejectsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	adapter, err := NewBitstampAdapter(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := adapter.FetchOrderBook(context.Background()); err == nil {
		t.Fatal("FetchOrderBook() should fail on HTTP 503")
	}
}

func TestAdapterRejectsNonPositiveLevels(t *testing.T) {
	srv := depthServer(t, `{
		"asks": [["0", "1.00"]],
		"bids": []
	}`)
	defer srv.Close()

	adapter, err := NewBitstampAdapter(srv.URL, time.Second, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := adapter.FetchOrderBook(context.Background()); err == nil {
		t.Fatal("FetchOrderBook() should reject a zero price")
	}
}

func TestNewAdapterFactory(t *testing.T) {
	for _, venue := range SupportedVenues() {
		adapter, err := NewAdapter(venue, "", 0, testLogger())
		if err != nil {
			t.Errorf("NewAdapter(%q) error = %v", venue, err)
			continue
		}
		if adapter.Venue() != venue {
			t.Errorf("Venue() = %q, want %q", adapter.Venue(), venue)
		}
	}

	if _, err := NewAdapter("nasdaq", "", 0, testLogger()); err == nil {
		t.Error("NewAdapter() should reject unknown venues")
	}
}
