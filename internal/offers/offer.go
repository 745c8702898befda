package offers

import "github.com/natasquad/buyergpt/internal/shopping"

// Mode controls retrieval breadth and ranking strategy.
type Mode string

const (
	// ModeFast favors latency: first results in provider order, no scoring.
	ModeFast Mode = "fast"
	// ModeDeep favors quality: one score call per candidate offer.
	ModeDeep Mode = "deep"
)

// ParseMode maps a caller-supplied string to a Mode, defaulting to fast.
func ParseMode(raw string) Mode {
	if raw == string(ModeDeep) {
		return ModeDeep
	}
	return ModeFast
}

// FetchLimit is the retrieval breadth for the mode.
func (m Mode) FetchLimit() int {
	if m == ModeDeep {
		return deepFetchLimit
	}
	return fastFetchLimit
}

const (
	fastFetchLimit = 3
	deepFetchLimit = 50

	// ResultCap bounds the number of offers shown to the user regardless
	// of mode.
	ResultCap = 3
)

// Placeholder markers substituted when the provider omits a field. An Offer
// surfaced to the user always has all three fields populated.
const (
	NoTitleMarker = "No title available"
	NoPriceMarker = "Price not available"
	NoLinkMarker  = "Link not available"
)

// Offer is a normalized (title, price, link) record.
type Offer struct {
	Title string
	Price string
	Link  string
}

// Normalize converts a raw listing into an Offer. A missing link falls back
// to the product_link field before the marker is used.
func Normalize(listing shopping.Listing) Offer {
	offer := Offer{
		Title: listing.Title,
		Price: listing.Price,
		Link:  listing.Link,
	}

	if offer.Title == "" {
		offer.Title = NoTitleMarker
	}
	if offer.Price == "" {
		offer.Price = NoPriceMarker
	}
	if offer.Link == "" {
		offer.Link = listing.ProductLink
	}
	if offer.Link == "" {
		offer.Link = NoLinkMarker
	}

	return offer
}
