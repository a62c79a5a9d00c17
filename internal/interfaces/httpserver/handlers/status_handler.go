package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/infrastructure/metrics"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/responses"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

// StatusHandler serves the public status endpoint polled by embedded widgets.
type StatusHandler struct {
	service      bot.Service
	cacheBackend string
	log          zerolog.Logger
}

// NewStatusHandler constructs the handler. cacheBackend labels cache metrics.
func NewStatusHandler(service bot.Service, cacheBackend string, log zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		service:      service,
		cacheBackend: cacheBackend,
		log:          log.With().Str("handler", "status").Logger(),
	}
}

// Get handles GET /v1/bots/:uuid/status
// @Summary Resolve a bot's public status
// @Description Returns the bot's activation state. A due pending bot starts activating on this read.
// @Tags Public
// @Produce json
// @Param uuid path string true "Bot UUID"
// @Success 200 {object} responses.StatusResponse
// @Failure 404 {object} responses.PublicError
// @Failure 503 {object} responses.PublicError
// @Router /v1/bots/{uuid}/status [get]
func (h *StatusHandler) Get(c *gin.Context) {
	res, err := h.service.ResolveStatus(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		switch {
		case platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound):
			metrics.RecordStatusPoll("not_found")
		case platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnavailable):
			metrics.RecordStatusPoll("unavailable")
			h.log.Warn().Err(err).Msg("bot store unavailable")
		default:
			metrics.RecordStatusPoll("error")
		}
		responses.HandlePublicError(c, err, "Bot not found")
		return
	}

	metrics.RecordStatusPoll(res.Bot.Status.String())
	metrics.RecordStatusCache(h.cacheBackend, res.Cached)
	if res.Triggered {
		metrics.RecordActivationTriggered("poll", 1)
	}

	c.JSON(http.StatusOK, responses.NewStatusResponse(res.Bot))
}
