// Package assistant sequences the message pipeline: detect language,
// translate, classify, branch, compose a localized reply.
package assistant

import (
	"context"
	"log/slog"

	"github.com/natasquad/buyergpt/internal/composer"
	"github.com/natasquad/buyergpt/internal/intent"
	"github.com/natasquad/buyergpt/internal/logger"
	"github.com/natasquad/buyergpt/internal/metrics"
	"github.com/natasquad/buyergpt/internal/offers"
	"github.com/natasquad/buyergpt/internal/translator"
)

const (
	// bestEffortReply is the top-level fallback. It is deliberately not
	// localized: when it is needed the language service itself may be the
	// failing component.
	bestEffortReply = "Sorry, something went wrong while processing your message. Please try again later."

	// offersErrorMessage is localized before delivery when the offers
	// sub-pipeline fails.
	offersErrorMessage = "Sorry, I encountered an error while searching for offers."

	// waitingMessage is delivered ahead of the offers pipeline, which can
	// take a while in deep mode.
	waitingMessage = "Understood, I will get back to you in a few moments. Please wait, thank you."
)

// Service is the orchestrator. No state is kept across messages.
type Service struct {
	translator *translator.Service
	classifier *intent.Classifier
	retriever  OfferRetriever
	ranker     *offers.Ranker
	composer   *composer.Service
	logger     *logger.Logger
}

// NewService creates a new orchestrator.
func NewService(
	trans *translator.Service,
	classifier *intent.Classifier,
	retriever OfferRetriever,
	ranker *offers.Ranker,
	comp *composer.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		translator: trans,
		classifier: classifier,
		retriever:  retriever,
		ranker:     ranker,
		composer:   comp,
		logger:     log.WithComponent("assistant"),
	}
}

// Respond runs the pipeline for one message and always returns a textual
// reply. Offers-path failures become a localized generic error reply; any
// other failure becomes the non-localized best-effort reply. Silent drops
// are not allowed.
func (s *Service) Respond(ctx context.Context, in Input) string {
	log := s.logger.WithContext(ctx)

	text := in.Text
	if in.Transcript != "" {
		text = in.Transcript
	}

	sourceLanguage, err := s.translator.DetectLanguage(ctx, text)
	if err != nil {
		log.Error("language detection failed", slog.String("error", err.Error()))
		return bestEffortReply
	}

	translated, err := s.translator.Translate(ctx, text, sourceLanguage, translator.PivotLanguage)
	if err != nil {
		log.Error("input translation failed", slog.String("error", err.Error()))
		return bestEffortReply
	}

	label := s.classifier.Classify(ctx, translated)
	metrics.MessagesTotal.WithLabelValues(string(label)).Inc()

	log.Info("message classified",
		slog.String("intent", string(label)),
		slog.String("language", sourceLanguage),
		slog.String("mode", string(in.Mode)),
	)

	if label == intent.IntentOffers {
		reply, err := s.respondOffers(ctx, translated, sourceLanguage, in.Mode)
		if err != nil {
			// The offers sub-pipeline is the only branch recovered here:
			// the user gets a localized generic error, the cause is only logged.
			s.logger.LogError(ctx, err, "offers pipeline failed")

			localized, terr := s.translator.Translate(ctx, offersErrorMessage, translator.PivotLanguage, sourceLanguage)
			if terr != nil {
				log.Error("offers error localization failed", slog.String("error", terr.Error()))
				return bestEffortReply
			}
			return localized
		}
		return reply
	}

	reply, err := s.composer.ComposeCanned(ctx, label, translated, sourceLanguage)
	if err != nil {
		log.Error("reply composition failed",
			slog.String("intent", string(label)),
			slog.String("error", err.Error()),
		)
		return bestEffortReply
	}

	return reply
}

// respondOffers runs retrieve → rank → format for the offers branch.
func (s *Service) respondOffers(ctx context.Context, query, sourceLanguage string, mode offers.Mode) (string, error) {
	ctx = logger.WithOperation(ctx, "offers")

	listings, err := s.retriever.Fetch(ctx, query, mode.FetchLimit())
	if err != nil {
		return "", err
	}

	ranked, err := s.ranker.Select(ctx, query, listings, mode)
	if err != nil {
		return "", err
	}

	return s.composer.ComposeOffers(ctx, ranked, sourceLanguage, mode)
}

// WaitingReply returns a localized waiting note when text looks like an
// offers query, so the transport can deliver it before the (slow) offers
// pipeline runs. Any failure just suppresses the note.
func (s *Service) WaitingReply(ctx context.Context, text string) (string, bool) {
	if s.classifier.Classify(ctx, text) != intent.IntentOffers {
		return "", false
	}

	sourceLanguage, err := s.translator.DetectLanguage(ctx, text)
	if err != nil {
		return "", false
	}

	localized, err := s.translator.Translate(ctx, waitingMessage, translator.PivotLanguage, sourceLanguage)
	if err != nil {
		return "", false
	}

	return localized, true
}
