// Package messaging delivers replies over the Twilio Messages API using
// WhatsApp addressing. Delivery is best effort: failures are logged here
// and never surface to the pipeline.
package messaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/natasquad/buyergpt/internal/config"
	"github.com/natasquad/buyergpt/internal/logger"
)

const apiBaseURL = "https://api.twilio.com/2010-04-01"

// Service sends outbound messages.
type Service struct {
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewService creates a new delivery service. With empty credentials the
// service runs in disabled mode and only logs what it would send.
func NewService(cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		fromNumber: cfg.TwilioNumber,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.WithComponent("messaging"),
	}
}

// Send delivers body to the given number. Errors are logged, not returned.
func (s *Service) Send(ctx context.Context, toNumber, body string) {
	log := s.logger.WithContext(ctx)

	if s.accountSID == "" || s.authToken == "" || s.fromNumber == "" {
		log.Debug("delivery disabled, skipping send", "to", toNumber)
		return
	}

	if err := s.send(ctx, toNumber, body); err != nil {
		log.Error("failed to deliver message", "to", toNumber, "error", err)
		return
	}

	log.Info("message delivered", "to", toNumber, "length", len(body))
}

func (s *Service) send(ctx context.Context, toNumber, body string) error {
	form := url.Values{}
	form.Set("From", "whatsapp:"+s.fromNumber)
	form.Set("To", "whatsapp:"+toNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", apiBaseURL, s.accountSID)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Twilio returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
