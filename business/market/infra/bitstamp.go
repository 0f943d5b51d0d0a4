package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/apperror"
	"github.com/arbx/arbitrageur/internal/httpclient"
	"github.com/arbx/arbitrageur/internal/logger"
)

const (
	BitstampVenue    = "bitstamp"
	bitstampDepthURL = "https://www.bitstamp.net/api/v2/order_book/btcusd/"
)

// BitstampAdapter fetches the Bitstamp BTC/USD order book.
type BitstampAdapter struct {
	client   httpclient.Client
	endpoint string
	logger   logger.LoggerInterface
}

// NewBitstampAdapter creates the adapter. An empty endpoint uses the
// public API.
func NewBitstampAdapter(endpoint string, timeout time.Duration, log logger.LoggerInterface) (*BitstampAdapter, error) {
	if endpoint == "" {
		endpoint = bitstampDepthURL
	}
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithVenueName(BitstampVenue),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &BitstampAdapter{
		client:   client,
		endpoint: endpoint,
		logger:   log,
	}, nil
}

func (a *BitstampAdapter) Venue() string { return BitstampVenue }

type bitstampDepthResponse struct {
	Asks []depthLevel `json:"asks"`
	Bids []depthLevel `json:"bids"`
}

// FetchOrderBook retrieves and normalizes the current depth.
func (a *BitstampAdapter) FetchOrderBook(ctx context.Context) (*domain.OrderBook, error) {
	var result bitstampDepthResponse

	resp, err := a.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "order_book")),
		httpclient.WithResponseErrorHandler(venueErrorHandler(BitstampVenue)),
	).
		SetResult(&result).
		Get(ctx, a.endpoint)

	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeOrderBookFetch, BitstampVenue)
	}

	if resp.Result() == nil {
		return nil, apperror.New(apperror.CodeOrderBookParse,
			apperror.WithContext(BitstampVenue))
	}

	book, err := buildOrderBook(BitstampVenue, result.Asks, result.Bids)
	if err != nil {
		return nil, err
	}

	a.logger.Debug(ctx, "fetched depth",
		"venue", BitstampVenue, "asks", len(book.Asks), "bids", len(book.Bids))

	return book, nil
}
