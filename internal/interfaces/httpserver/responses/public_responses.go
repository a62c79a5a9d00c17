package responses

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

// RetryAfterSeconds is sent with every 503.
const RetryAfterSeconds = "5"

// PublicError is the envelope of the endpoints embedded pages call.
type PublicError struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// StatusResponse is the public view of a bot. It never carries owner data,
// prompts or keys.
type StatusResponse struct {
	Success               bool       `json:"success"`
	Status                string     `json:"status"`
	UUID                  string     `json:"uuid"`
	Name                  string     `json:"name"`
	ActivationScheduledAt time.Time  `json:"activationScheduledAt"`
	AssistantReference    string     `json:"assistantReference,omitempty"`
	VapiAssistantID       string     `json:"vapiAssistantId,omitempty"`
	ActivatedAt           *time.Time `json:"activatedAt,omitempty"`
}

func NewStatusResponse(b *bot.Bot) StatusResponse {
	resp := StatusResponse{
		Success:               true,
		Status:                b.Status.String(),
		UUID:                  b.UUID,
		Name:                  b.Name,
		ActivationScheduledAt: b.ActivationScheduledAt.UTC(),
		ActivatedAt:           b.ActivatedAt,
	}
	if b.AssistantReference != nil {
		resp.AssistantReference = *b.AssistantReference
		resp.VapiAssistantID = *b.AssistantReference
	}
	return resp
}

// HandlePublicError maps err onto the public envelope. Store outages are
// retryable and carry Retry-After.
func HandlePublicError(c *gin.Context, err error, notFoundMessage string) {
	var perr *platformerrors.PlatformError
	if !errors.As(err, &perr) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, PublicError{Error: "Internal server error"})
		return
	}

	switch perr.GetErrorType() {
	case platformerrors.ErrorTypeNotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, PublicError{Error: notFoundMessage})
	case platformerrors.ErrorTypeValidation:
		c.AbortWithStatusJSON(http.StatusBadRequest, PublicError{Error: perr.Message})
	case platformerrors.ErrorTypeUnavailable:
		_ = c.Error(err)
		c.Header("Retry-After", RetryAfterSeconds)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, PublicError{Error: "Bot store temporarily unavailable", Retryable: true})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, PublicError{Error: "Internal server error"})
	}
}
