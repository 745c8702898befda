// Package transcription turns audio message attachments into text via the
// OpenAI audio transcriptions endpoint. Its output is treated identically
// to typed text by the pipeline.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/natasquad/buyergpt/internal/config"
	"github.com/natasquad/buyergpt/internal/logger"
)

const transcriptionModel = "whisper-1"

// Service downloads an audio attachment and transcribes it.
type Service struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewService creates a new transcription service.
func NewService(cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		baseURL: strings.TrimSuffix(cfg.OpenAIBaseURL, "/"),
		apiKey:  cfg.OpenAIAPIKey,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		logger: log.WithComponent("transcription"),
	}
}

// Transcribe fetches the media behind mediaURL (following redirects to the
// storage backend) and returns the transcribed text.
func (s *Service) Transcribe(ctx context.Context, mediaURL string) (string, error) {
	audio, err := s.download(ctx, mediaURL)
	if err != nil {
		return "", err
	}

	text, err := s.transcribe(ctx, audio)
	if err != nil {
		return "", err
	}

	s.logger.WithContext(ctx).Debug("audio transcribed",
		slog.Int("audio_bytes", len(audio)),
		slog.Int("text_len", len(text)),
	)

	return text, nil
}

func (s *Service) download(ctx context.Context, mediaURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}

	return audio, nil
}

func (s *Service) transcribe(ctx context.Context, audio []byte) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.ogg")
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	if err := writer.WriteField("model", transcriptionModel); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	url := s.baseURL + "/audio/transcriptions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse transcription: %w", err)
	}

	return strings.TrimSpace(result.Text), nil
}
