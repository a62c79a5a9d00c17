package handlers

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/voicebot-api/internal/infrastructure/auth"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/responses"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

// ownerFrom aborts with 401 when the auth middleware did not set an owner.
func ownerFrom(c *gin.Context) (string, bool) {
	owner, ok := auth.OwnerID(c)
	if !ok || owner == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "owner is required", "5b7d9f1a-3c4e-4a6b-8d0f-1a3c5e7b9d24")
		return "", false
	}
	return owner, true
}
