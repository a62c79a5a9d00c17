package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/requests"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/responses"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

// BotHandler exposes the owner's bot management endpoints.
type BotHandler struct {
	service bot.Service
	log     zerolog.Logger
}

// NewBotHandler constructs the handler.
func NewBotHandler(service bot.Service, log zerolog.Logger) *BotHandler {
	return &BotHandler{
		service: service,
		log:     log.With().Str("handler", "bot").Logger(),
	}
}

// Create handles POST /v1/bots
// @Summary Create a voice bot
// @Description Creates a bot scheduled for activation and returns it with its embed snippet
// @Tags Bots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body requests.CreateBotRequest true "Bot definition"
// @Success 201 {object} responses.BotResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/bots [post]
func (h *BotHandler) Create(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	var req requests.CreateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "7d9f1b3c-5e6a-4c8d-9f2b-3c5e7a9d1f46")
		return
	}

	created, err := h.service.Create(c.Request.Context(), bot.CreateParams{
		OwnerID:        owner,
		Name:           req.Name,
		WelcomeMessage: req.WelcomeMessage,
		SystemPrompt:   req.SystemPrompt,
		Voice:          req.Voice,
		RAGEnabled:     req.RAGEnabled,
		EmbedConfig: bot.EmbedConfig{
			Language: req.Language,
			Position: bot.Position(req.Position),
			Theme:    bot.Theme(req.Theme),
		},
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create bot")
		return
	}

	h.log.Info().Str("bot_uuid", created.UUID).Str("owner_id", owner).Msg("bot created")
	c.JSON(http.StatusCreated, responses.NewBotResponse(created))
}

// List handles GET /v1/bots
// @Summary List voice bots
// @Tags Bots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.ListResponse[responses.BotResponse]
// @Failure 401 {object} map[string]string
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/bots [get]
func (h *BotHandler) List(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	bots, err := h.service.List(c.Request.Context(), owner)
	if err != nil {
		responses.HandleError(c, err, "failed to list bots")
		return
	}

	c.JSON(http.StatusOK, responses.NewListResponse(responses.NewBotResponses(bots)))
}

// Get handles GET /v1/bots/:uuid
// @Summary Get a voice bot
// @Tags Bots
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Success 200 {object} responses.BotResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid} [get]
func (h *BotHandler) Get(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), owner, c.Param("uuid"))
	if err != nil {
		responses.HandleError(c, err, "bot not found")
		return
	}

	c.JSON(http.StatusOK, responses.NewBotResponse(b))
}

// Delete handles DELETE /v1/bots/:uuid
// @Summary Delete a voice bot
// @Tags Bots
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Success 204
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid} [delete]
func (h *BotHandler) Delete(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), owner, c.Param("uuid")); err != nil {
		responses.HandleError(c, err, "failed to delete bot")
		return
	}

	c.Status(http.StatusNoContent)
}

// Activate handles POST /v1/bots/:uuid/activate
// @Summary Activate a voice bot now
// @Description Starts provisioning for a pending bot or retries a failed one
// @Tags Bots
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Success 202 {object} responses.BotResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Failure 503 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid}/activate [post]
func (h *BotHandler) Activate(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	b, err := h.service.Activate(c.Request.Context(), owner, c.Param("uuid"))
	if err != nil {
		responses.HandleError(c, err, "failed to activate bot")
		return
	}

	c.JSON(http.StatusAccepted, responses.NewBotResponse(b))
}

// Deactivate handles POST /v1/bots/:uuid/deactivate
// @Summary Deactivate a voice bot
// @Description Returns an active bot to pending and reschedules its activation
// @Tags Bots
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Success 200 {object} responses.BotResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid}/deactivate [post]
func (h *BotHandler) Deactivate(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	b, err := h.service.Deactivate(c.Request.Context(), owner, c.Param("uuid"))
	if err != nil {
		responses.HandleError(c, err, "failed to deactivate bot")
		return
	}

	c.JSON(http.StatusOK, responses.NewBotResponse(b))
}

// SetAssistant handles PATCH /v1/bots/:uuid/assistant
// @Summary Set the assistant reference
// @Tags Bots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Param request body requests.SetAssistantRequest true "Assistant reference"
// @Success 200 {object} responses.BotResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid}/assistant [patch]
func (h *BotHandler) SetAssistant(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	var req requests.SetAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "9f1b3d5e-7a8c-4e0f-8b4d-5e7a9c1f3b68")
		return
	}

	b, err := h.service.SetAssistantReference(c.Request.Context(), owner, c.Param("uuid"), req.AssistantReference)
	if err != nil {
		responses.HandleError(c, err, "failed to set assistant reference")
		return
	}

	c.JSON(http.StatusOK, responses.NewBotResponse(b))
}

// Embed handles GET /v1/bots/:uuid/embed
// @Summary Get the embed snippet
// @Tags Bots
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bot UUID"
// @Success 200 {object} responses.EmbedResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/bots/{uuid}/embed [get]
func (h *BotHandler) Embed(c *gin.Context) {
	owner, ok := ownerFrom(c)
	if !ok {
		return
	}

	b, err := h.service.Get(c.Request.Context(), owner, c.Param("uuid"))
	if err != nil {
		responses.HandleError(c, err, "bot not found")
		return
	}

	c.JSON(http.StatusOK, responses.EmbedResponse{UUID: b.UUID, EmbedCode: b.EmbedCode})
}
