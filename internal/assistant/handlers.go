package assistant

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/natasquad/buyergpt/internal/errors"
	"github.com/natasquad/buyergpt/internal/logger"
	"github.com/natasquad/buyergpt/internal/messaging"
	"github.com/natasquad/buyergpt/internal/offers"
	"github.com/natasquad/buyergpt/internal/transcription"
)

// Handler handles the inbound message webhook.
type Handler struct {
	service        *Service
	messenger      *messaging.Service
	transcriber    *transcription.Service
	requestTimeout time.Duration
	logger         *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(service *Service, messenger *messaging.Service, transcriber *transcription.Service, requestTimeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		service:        service,
		messenger:      messenger,
		transcriber:    transcriber,
		requestTimeout: requestTimeout,
		logger:         log.WithComponent("webhook"),
	}
}

// HealthHandler handles GET / requests.
func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "working"})
}

// MessageHandler handles POST /message requests.
// Form fields (Twilio webhook shape):
//   - From (required): sender id, "whatsapp:{number}"
//   - Body: message text
//   - MediaUrl0, MediaContentType0: optional audio attachment
//
// Query parameters:
//   - mode (optional): ranking mode, "fast" or "deep", default "fast"
func (h *Handler) MessageHandler(c *gin.Context) {
	from := c.PostForm("From")
	if from == "" {
		errors.AbortWithBadRequest(c, "Missing required field 'From'", nil)
		return
	}
	sender := strings.TrimPrefix(from, "whatsapp:")

	body := c.PostForm("Body")
	mediaURL := c.PostForm("MediaUrl0")
	mediaType := c.PostForm("MediaContentType0")

	if body == "" && mediaURL == "" {
		errors.AbortWithBadRequest(c, "Missing message body", nil)
		return
	}

	ctx := logger.WithRequestID(c.Request.Context(), logger.GenerateRequestID())
	ctx = logger.WithSenderID(ctx, sender)

	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout)
	defer cancel()

	log := h.logger.WithContext(ctx)

	in := Input{
		Text: body,
		Mode: offers.ParseMode(c.Query("mode")),
	}

	if mediaURL != "" && strings.Contains(mediaType, "audio/ogg") {
		transcript, err := h.transcriber.Transcribe(ctx, mediaURL)
		if err != nil {
			// Fall back to whatever text came with the message.
			log.Warn("transcription failed, using typed text",
				slog.String("error", err.Error()),
			)
		} else {
			in.Transcript = transcript
		}
	}

	text := in.Text
	if in.Transcript != "" {
		text = in.Transcript
	}

	// Offers queries can take a while, tell the user to hang on first.
	if waiting, ok := h.service.WaitingReply(ctx, text); ok {
		h.messenger.Send(ctx, sender, waiting)
	}

	reply := h.service.Respond(ctx, in)

	h.messenger.Send(ctx, sender, reply)

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
