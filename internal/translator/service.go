// Package translator provides language detection and translation on top of
// the language service.
package translator

import (
	"context"
	"strings"

	"github.com/natasquad/buyergpt/internal/llm"
)

// PivotLanguage is the intermediate language all input is translated into
// before classification.
const PivotLanguage = "English"

const detectTemplate = `You are a language detector agent. Your task is to output the language corresponding to a given human input. Just output one language corresponding to the human input
Input: {input_text}
Language:`

const translateTemplate = `You are a language translator agent. Your goal is to translate a given text from {source_language} language into {destination_language} language.

Do not make a translation if the source language and destination language are the same.

Output the translation result without quotes, extra spaces, unnecessary tokens or something else, just the translated text in {destination_language} and with no extra spaces.

Input: {input_text}

Translation Result:`

// Service asks the language service to detect and translate text.
type Service struct {
	llm llm.Completer
}

// NewService creates a new translator service.
func NewService(completer llm.Completer) *Service {
	return &Service{llm: completer}
}

// DetectLanguage names the language of text. The returned string is
// accepted verbatim; it is not validated against a known language list.
func (s *Service) DetectLanguage(ctx context.Context, text string) (string, error) {
	result, err := s.llm.Complete(ctx, llm.Request{
		Template: detectTemplate,
		Vars: map[string]string{
			"input_text": text,
		},
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// Translate renders text from sourceLanguage into destinationLanguage.
// When the languages match the prompt requests a no-op; there is no local
// short-circuit, the language service is trusted to honor it. Callers
// should treat the result as best effort.
func (s *Service) Translate(ctx context.Context, text, sourceLanguage, destinationLanguage string) (string, error) {
	if sourceLanguage == "" {
		sourceLanguage = PivotLanguage
	}

	return s.llm.Complete(ctx, llm.Request{
		Template: translateTemplate,
		Vars: map[string]string{
			"source_language":      sourceLanguage,
			"destination_language": destinationLanguage,
			"input_text":           text,
		},
		Temperature: 0,
	})
}
