package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/navigation"
	"jan-server/services/voicebot-api/internal/infrastructure/metrics"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/middlewares"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/requests"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/responses"
)

// NavigationService is the subset of navigation.Service the handler needs.
type NavigationService interface {
	Record(ctx context.Context, params navigation.RecordParams) (*navigation.Event, error)
	List(ctx context.Context, ownerID, botUUID string, limit int) ([]*navigation.Event, error)
}

// NavigationHandler receives widget navigation reports and lists them for owners.
type NavigationHandler struct {
	service NavigationService
	log     zerolog.Logger
}

func NewNavigationHandler(service NavigationService, log zerolog.Logger) *NavigationHandler {
	return &NavigationHandler{
		service: service,
		log:     log.With().Str("handler", "navigation").Logger(),
	}
}

// Record handles POST /v1/navigation/events
// @Summary Report a navigation attempt
// @Tags Public
// @Accept json
// @Produce json
// @Param request body requests.NavigationEventRequest true "Navigation report"
// @Success 202 {object} map[string]bool
// @Failure 400 {object} responses.PublicError
// @Failure 404 {object} responses.PublicError
// @Failure 429 {object} responses.PublicError
// @Router /v1/navigation/events [post]
func (h *NavigationHandler) Record(c *gin.Context) {
	var req requests.NavigationEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.PublicError{Error: "Invalid navigation event"})
		return
	}

	event, err := h.service.Record(c.Request.Context(), navigation.RecordParams{
		BotUUID:   req.BotUUID,
		URL:       req.URL,
		Command:   req.Command,
		Success:   *req.Success,
		Origin:    c.GetHeader("Origin"),
		UserAgent: c.Request.UserAgent(),
		RequestID: middlewares.RequestIDFromContext(c),
	})
	if err != nil {
		responses.HandlePublicError(c, err, "Bot not found")
		return
	}

	metrics.RecordNavigationEvent(event.Intent, event.Success)
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

// List handles GET /v1/bots/:uuid/navigation-events
// @Summary List recent navigation events
// @Tags Bots
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Param limit query int false "Maximum events"
// @Success 200 {object} responses.ListResponse[responses.NavigationEventResponse]
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid}/navigation-events [get]
func (h *NavigationHandler) List(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.service.List(c.Request.Context(), owner, c.Param("uuid"), limit)
	if err != nil {
		responses.HandleError(c, err, "failed to list navigation events")
		return
	}

	c.JSON(http.StatusOK, responses.NewListResponse(responses.NewNavigationEventResponses(events)))
}
