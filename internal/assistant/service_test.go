package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/natasquad/buyergpt/internal/composer"
	"github.com/natasquad/buyergpt/internal/intent"
	"github.com/natasquad/buyergpt/internal/llm"
	"github.com/natasquad/buyergpt/internal/logger"
	"github.com/natasquad/buyergpt/internal/offers"
	"github.com/natasquad/buyergpt/internal/shopping"
	"github.com/natasquad/buyergpt/internal/translator"
)

// scriptedCompleter routes completion calls by the prompt template so one
// mock can play the language service for the whole pipeline. Translations
// echo the input, standing in for a model honoring the no-op instruction.
type scriptedCompleter struct {
	language   string
	label      string
	canned     string
	scores     map[string]string
	detectErr  error
	scoreCalls int
}

func (s *scriptedCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	switch {
	case strings.Contains(req.Template, "language detector agent"):
		if s.detectErr != nil {
			return "", s.detectErr
		}
		return s.language, nil
	case strings.Contains(req.Template, "language translator agent"):
		return req.Vars["input_text"], nil
	case strings.Contains(req.Template, "identify the domain"):
		return s.label, nil
	case strings.Contains(req.Template, "integer value between 0 and 10"):
		s.scoreCalls++
		if score, ok := s.scores[req.Vars["offer"]]; ok {
			return score, nil
		}
		return "5", nil
	default:
		return s.canned, nil
	}
}

type fakeRetriever struct {
	listings  []shopping.Listing
	err       error
	lastQuery string
	lastLimit int
}

func (f *fakeRetriever) Fetch(ctx context.Context, query string, limit int) ([]shopping.Listing, error) {
	f.lastQuery = query
	f.lastLimit = limit
	return f.listings, f.err
}

type fakeShortener struct{}

func (fakeShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	return "https://da.gd/" + longURL[len(longURL)-1:], nil
}

func newTestService(completer llm.Completer, retriever OfferRetriever) *Service {
	log := logger.New(logger.Config{Level: slog.LevelError, Format: "text"})
	trans := translator.NewService(completer)
	return NewService(
		trans,
		intent.NewClassifier(completer, "test persona", log),
		retriever,
		offers.NewRanker(completer, log),
		composer.NewService(completer, trans, fakeShortener{}, "test persona", log),
		log,
	)
}

func TestRespondGreeting(t *testing.T) {
	completer := &scriptedCompleter{
		language: "Spanish",
		label:    "greeting",
		canned:   "Hello! I find product offers. What would you like to buy?",
	}
	svc := newTestService(completer, &fakeRetriever{})

	got := svc.Respond(context.Background(), Input{Text: "Hola", Mode: offers.ModeFast})
	if got != completer.canned {
		t.Errorf("Respond() = %q, want the composed greeting", got)
	}
}

func TestRespondUnrecognized(t *testing.T) {
	completer := &scriptedCompleter{
		language: "English",
		label:    "no idea",
	}
	svc := newTestService(completer, &fakeRetriever{})

	got := svc.Respond(context.Background(), Input{Text: "asdf qwer", Mode: offers.ModeFast})
	if got != composer.RephraseMessage {
		t.Errorf("Respond() = %q, want the rephrase message", got)
	}
}

func TestRespondOffersFast(t *testing.T) {
	retriever := &fakeRetriever{
		listings: []shopping.Listing{
			{Title: "Blender A", Price: "$39.99", Link: "https://example.com/a"},
			{Title: "Blender B", Price: "$49.99", Link: "https://example.com/b"},
			{Title: "Blender C", Price: "$59.99", Link: "https://example.com/c"},
		},
	}
	completer := &scriptedCompleter{language: "English", label: "offers"}
	svc := newTestService(completer, retriever)

	got := svc.Respond(context.Background(), Input{Text: "find me a blender", Mode: offers.ModeFast})

	if retriever.lastLimit != 3 {
		t.Errorf("fast mode fetch limit = %d, want 3", retriever.lastLimit)
	}
	if retriever.lastQuery != "find me a blender" {
		t.Errorf("fetch query = %q", retriever.lastQuery)
	}
	if completer.scoreCalls != 0 {
		t.Errorf("fast mode made %d scoring calls, want 0", completer.scoreCalls)
	}

	posA := strings.Index(got, "Blender A")
	posB := strings.Index(got, "Blender B")
	posC := strings.Index(got, "Blender C")
	if posA < 0 || posB < 0 || posC < 0 {
		t.Fatalf("missing offers in reply:\n%s", got)
	}
	if !(posA < posB && posB < posC) {
		t.Errorf("offers out of provider order:\n%s", got)
	}
	if !strings.Contains(got, "fast model") {
		t.Errorf("mode missing from header:\n%s", got)
	}
}

func TestRespondOffersDeep(t *testing.T) {
	retriever := &fakeRetriever{
		listings: []shopping.Listing{
			{Title: "a", Price: "$1", Link: "https://example.com/a"},
			{Title: "b", Price: "$2", Link: "https://example.com/b"},
			{Title: "c", Price: "$3", Link: "https://example.com/c"},
			{Title: "d", Price: "$4", Link: "https://example.com/d"},
		},
	}
	completer := &scriptedCompleter{
		language: "English",
		label:    "offers",
		scores: map[string]string{
			"(a, $1)": "8",
			"(b, $2)": "1",
			"(c, $3)": "6",
			"(d, $4)": "3",
		},
	}
	svc := newTestService(completer, retriever)

	got := svc.Respond(context.Background(), Input{Text: "find me a blender", Mode: offers.ModeDeep})

	if retriever.lastLimit != 50 {
		t.Errorf("deep mode fetch limit = %d, want 50", retriever.lastLimit)
	}
	if completer.scoreCalls != 4 {
		t.Errorf("deep mode made %d scoring calls, want one per listing", completer.scoreCalls)
	}
	// Lowest scores first: b(1), d(3), c(6); a(8) drops out.
	if strings.Contains(got, "Product: a\n") {
		t.Errorf("capped-out offer still present:\n%s", got)
	}
	posB := strings.Index(got, "Product: b")
	posD := strings.Index(got, "Product: d")
	posC := strings.Index(got, "Product: c")
	if posB < 0 || posD < 0 || posC < 0 {
		t.Fatalf("missing ranked offers:\n%s", got)
	}
	if !(posB < posD && posD < posC) {
		t.Errorf("offers out of score order:\n%s", got)
	}
}

func TestRespondOffersRetrievalFailure(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("provider timeout")}
	completer := &scriptedCompleter{language: "Spanish", label: "offers"}
	svc := newTestService(completer, retriever)

	got := svc.Respond(context.Background(), Input{Text: "busca ofertas", Mode: offers.ModeFast})
	if got != offersErrorMessage {
		t.Errorf("Respond() = %q, want the localized offers error", got)
	}
}

func TestRespondDetectionFailure(t *testing.T) {
	completer := &scriptedCompleter{detectErr: errors.New("unavailable")}
	svc := newTestService(completer, &fakeRetriever{})

	got := svc.Respond(context.Background(), Input{Text: "hola", Mode: offers.ModeFast})
	if got != bestEffortReply {
		t.Errorf("Respond() = %q, want the best-effort reply", got)
	}
}

func TestRespondPrefersTranscript(t *testing.T) {
	retriever := &fakeRetriever{}
	completer := &scriptedCompleter{language: "English", label: "offers"}
	svc := newTestService(completer, retriever)

	svc.Respond(context.Background(), Input{
		Text:       "caption text",
		Transcript: "find me a toaster",
		Mode:       offers.ModeFast,
	})

	if retriever.lastQuery != "find me a toaster" {
		t.Errorf("query = %q, want the transcript", retriever.lastQuery)
	}
}

func TestWaitingReplyOnlyForOffers(t *testing.T) {
	completer := &scriptedCompleter{language: "English", label: "offers"}
	svc := newTestService(completer, &fakeRetriever{})

	got, ok := svc.WaitingReply(context.Background(), "find me a blender")
	if !ok {
		t.Fatal("expected a waiting reply for an offers query")
	}
	if got != waitingMessage {
		t.Errorf("waiting reply = %q", got)
	}

	completer.label = "greeting"
	if _, ok := svc.WaitingReply(context.Background(), "hello"); ok {
		t.Error("greeting must not produce a waiting reply")
	}
}

func TestWaitingReplySuppressedOnFailure(t *testing.T) {
	completer := &scriptedCompleter{label: "offers", detectErr: errors.New("unavailable")}
	svc := newTestService(completer, &fakeRetriever{})

	if _, ok := svc.WaitingReply(context.Background(), "find me a blender"); ok {
		t.Error("waiting reply must be suppressed when detection fails")
	}
}
