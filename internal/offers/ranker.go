package offers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/natasquad/buyergpt/internal/llm"
	"github.com/natasquad/buyergpt/internal/logger"
	"github.com/natasquad/buyergpt/internal/shopping"
)

const scoreTemplate = `Given user input indicating their desire for offers for a given product, return a single integer value between 0 and 10 indicating how good the offer is. Just print the result:
Human Input: {human_input}

Offer: {offer}

Result:`

// scoreAscending fixes the deep-mode sort direction. Lower scores currently
// rank first; the original behavior is preserved until product confirms the
// intended direction. Flipping this constant is the whole fix.
const scoreAscending = true

// Ranker selects and orders the top offers from raw listings.
type Ranker struct {
	llm    llm.Completer
	logger *logger.Logger
}

// NewRanker creates a new offer ranker.
func NewRanker(completer llm.Completer, log *logger.Logger) *Ranker {
	return &Ranker{
		llm:    completer,
		logger: log.WithComponent("offers"),
	}
}

// Select normalizes the raw listings and returns the leading ResultCap
// offers. Fast mode keeps provider order with no scoring calls; deep mode
// scores every normalized offer with one language-service call each and
// sorts by score before truncating. Scoring errors propagate.
func (r *Ranker) Select(ctx context.Context, query string, listings []shopping.Listing, mode Mode) ([]Offer, error) {
	normalized := make([]Offer, 0, len(listings))
	for _, listing := range listings {
		normalized = append(normalized, Normalize(listing))
	}

	if mode != ModeDeep {
		if len(normalized) > ResultCap {
			normalized = normalized[:ResultCap]
		}
		return normalized, nil
	}

	scores := make([]int, len(normalized))
	for i, offer := range normalized {
		score, err := r.scoreOffer(ctx, query, offer)
		if err != nil {
			return nil, err
		}
		scores[i] = score
	}

	order := make([]int, len(normalized))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if scoreAscending {
			return scores[order[i]] < scores[order[j]]
		}
		return scores[order[i]] > scores[order[j]]
	})

	ranked := make([]Offer, 0, ResultCap)
	for _, idx := range order {
		ranked = append(ranked, normalized[idx])
		if len(ranked) == ResultCap {
			break
		}
	}

	r.logger.WithContext(ctx).Debug("deep ranking finished",
		slog.Int("candidates", len(normalized)),
		slog.Int("selected", len(ranked)),
	)

	return ranked, nil
}

// scoreOffer asks the language service to rate the offer for the query.
// The answer must parse as an integer; anything else is a fatal error for
// the ranking call.
func (r *Ranker) scoreOffer(ctx context.Context, query string, offer Offer) (int, error) {
	raw, err := r.llm.Complete(ctx, llm.Request{
		Template: scoreTemplate,
		Vars: map[string]string{
			"human_input": query,
			"offer":       fmt.Sprintf("(%s, %s)", offer.Title, offer.Price),
		},
		Temperature: 0,
	})
	if err != nil {
		return 0, err
	}

	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("offer score is not an integer: %q", raw)
	}

	return score, nil
}
