package assistant

import (
	"context"

	"github.com/natasquad/buyergpt/internal/offers"
	"github.com/natasquad/buyergpt/internal/shopping"
)

// Input is a single incoming message. Transcript, when set, carries
// pre-transcribed audio and takes precedence over Text.
type Input struct {
	Text       string
	Transcript string
	Mode       offers.Mode
}

// OfferRetriever fetches candidate listings for an offers query.
type OfferRetriever interface {
	Fetch(ctx context.Context, query string, limit int) ([]shopping.Listing, error)
}
