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
	CampBXVenue    = "campbx"
	campbxDepthURL = "https://campbx.com/api/xdepth.php"
)

// CampBXAdapter fetches the CampBX BTC/USD order book.
type CampBXAdapter struct {
	client   httpclient.Client
	endpoint string
	logger   logger.LoggerInterface
}

// NewCampBXAdapter creates the adapter. An empty endpoint uses the public API.
func NewCampBXAdapter(endpoint string, timeout time.Duration, log logger.LoggerInterface) (*CampBXAdapter, error) {
	if endpoint == "" {
		endpoint = campbxDepthURL
	}
	if timeout == 0 {
		timeout = defaultFetchTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithVenueName(CampBXVenue),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &CampBXAdapter{
		client:   client,
		endpoint: endpoint,
		logger:   log,
	}, nil
}

func (a *CampBXAdapter) Venue() string { return CampBXVenue }

// CampBX capitalizes its side keys.
type campbxDepthResponse struct {
	Asks []depthLevel `json:"Asks"`
	Bids []depthLevel `json:"Bids"`
}

// FetchOrderBook retrieves and normalizes the current depth.
func (a *CampBXAdapter) FetchOrderBook(ctx context.Context) (*domain.OrderBook, error) {
	var result campbxDepthResponse

	resp, err := a.client.NewRequestWithOptions(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "xdepth")),
		httpclient.WithResponseErrorHandler(venueErrorHandler(CampBXVenue)),
	).
		SetResult(&result).
		Get(ctx, a.endpoint)

	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeOrderBookFetch, CampBXVenue)
	}

	if resp.Result() == nil {
		return nil, apperror.New(apperror.CodeOrderBookParse,
			apperror.WithContext(CampBXVenue))
	}

	book, err := buildOrderBook(CampBXVenue, result.Asks, result.Bids)
	if err != nil {
		return nil, err
	}

	a.logger.Debug(ctx, "fetched depth",
		"venue", CampBXVenue, "asks", len(book.Asks), "bids", len(book.Bids))

	return book, nil
}
