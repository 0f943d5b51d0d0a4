package infra

import (
	"fmt"
	"time"

	"github.com/arbx/arbitrageur/business/market/app"
	"github.com/arbx/arbitrageur/internal/logger"
)

// NewAdapter builds a venue adapter by name. The endpoint overrides the
// venue's public API URL when non-empty.
func NewAdapter(venue, endpoint string, timeout time.Duration, log logger.LoggerInterface) (app.Adapter, error) {
	switch venue {
	case BitstampVenue:
		return NewBitstampAdapter(endpoint, timeout, log)
	case BTCEVenue:
		return NewBTCEAdapter(endpoint, timeout, log)
	case CampBXVenue:
		return NewCampBXAdapter(endpoint, timeout, log)
	case MtGoxVenue:
		return NewMtGoxAdapter(endpoint, timeout, log)
	default:
		return nil, fmt.Errorf("unknown venue %q", venue)
	}
}

// SupportedVenues lists every venue NewAdapter understands.
func SupportedVenues() []string {
	return []string{BitstampVenue, BTCEVenue, CampBXVenue, MtGoxVenue}
}
