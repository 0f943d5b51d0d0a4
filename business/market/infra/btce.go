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
	BTCEVenue    = "btce"
	btceDepthURL = "https://btc-e.com/api/2/btc_usd/depth"
)

// BTCEAdapter fetches the BTC-E BTC/USD order book.
type BTCEAdapter struct {
	client   httpclient.Client
	endpoint string
	logger   logger.LoggerInterface
}

// NewBTCEAdapter creates the adapter. An empty endpoint uses the public API.
func NewBTCEAdapter(endpoint string, timeout time.Duration, log logger.LoggerInterface) (*BTCEAdapter, error) {
	if endpoint == "" {
		endpoint = btceDepthURL
	}
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithVenueName(BTCEVenue),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &BTCEAdapter{
		client:   client,
		endpoint: endpoint,
		logger:   log,
	}, nil
}

func (a *BTCEAdapter) Venue() string { return BTCEVenue }

// BTC-E sends prices as bare JSON numbers rather than strings.
type btceDepthResponse struct {
	Asks []depthLevel `json:"asks"`
	Bids []depthLevel `json:"bids"`
}

// FetchOrderBook retrieves and normalizes the current depth.
func (a *BTCEAdapter) FetchOrderBook(ctx context.Context) (*domain.OrderBook, error) {
	var result btceDepthResponse

	resp, err := a.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "depth")),
		httpclient.WithResponseErrorHandler(venueErrorHandler(BTCEVenue)),
	).
		SetResult(&result).
		Get(ctx, a.endpoint)

	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeOrderBookFetch, BTCEVenue)
	}

	if resp.Result() == nil {
		return nil, apperror.New(apperror.CodeOrderBookParse,
			apperror.WithContext(BTCEVenue))
	}

	book, err := buildOrderBook(BTCEVenue, result.Asks, result.Bids)
	if err != nil {
		return nil, err
	}

	a.logger.Debug(ctx, "fetched depth",
		"venue", BTCEVenue, "asks", len(book.Asks), "bids", len(book.Bids))

	return book, nil
}
