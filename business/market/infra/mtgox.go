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
	MtGoxVenue    = "mtgox"
	mtgoxDepthURL = "https://data.mtgox.com/api/2/BTCUSD/money/depth/fetch"
)

// MtGoxAdapter fetches the MtGox BTC/USD order book.
type MtGoxAdapter struct {
	client   httpclient.Client
	endpoint string
	logger   logger.LoggerInterface
}

// NewMtGoxAdapter creates the adapter. An empty endpoint uses the public API.
func NewMtGoxAdapter(endpoint string, timeout time.Duration, log logger.LoggerInterface) (*MtGoxAdapter, error) {
	if endpoint == "" {
		endpoint = mtgoxDepthURL
	}
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithVenueName(MtGoxVenue),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &MtGoxAdapter{
		client:   client,
		endpoint: endpoint,
		logger:   log,
	}, nil
}

func (a *MtGoxAdapter) Venue() string { return MtGoxVenue }

// MtGox wraps the depth in a result/data envelope and uses objects
// instead of [price, amount] pairs.
type mtgoxDepthLevel struct {
	Price  jsonNumber `json:"price"`
	Amount jsonNumber `json:"amount"`
}

type mtgoxDepthResponse struct {
	Result string `json:"result"`
	Data   struct {
		Asks []mtgoxDepthLevel `json:"asks"`
		Bids []mtgoxDepthLevel `json:"bids"`
	} `json:"data"`
}

// FetchOrderBook retrieves and normalizes the current depth.
func (a *MtGoxAdapter) FetchOrderBook(ctx context.Context) (*domain.OrderBook, error) {
	var result mtgoxDepthResponse

	resp, err := a.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "depth")),
		httpclient.WithResponseErrorHandler(venueErrorHandler(MtGoxVenue)),
	).
		SetResult(&result).
		Get(ctx, a.endpoint)

	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeOrderBookFetch, MtGoxVenue)
	}

	if resp.Result() == nil {
		return nil, apperror.New(apperror.CodeOrderBookParse,
			apperror.WithContext(MtGoxVenue))
	}

	if result.Result != "success" {
		return nil, apperror.New(apperror.CodeVenueAPIError,
			apperror.WithContext(fmt.Sprintf("%s result %q", MtGoxVenue, result.Result)))
	}

	book, err := buildOrderBook(MtGoxVenue,
		levelsFromObjects(result.Data.Asks),
		levelsFromObjects(result.Data.Bids))
	if err != nil {
		return nil, err
	}

	a.logger.Debug(ctx, "fetched depth",
		"venue", MtGoxVenue, "asks", len(book.Asks), "bids", len(book.Bids))

	return book, nil
}

func levelsFromObjects(levels []mtgoxDepthLevel) []depthLevel {
	out := make([]depthLevel, len(levels))
	for i, l := range levels {
		out[i] = depthLevel{l.Price, l.Amount}
	}
	return out
}
