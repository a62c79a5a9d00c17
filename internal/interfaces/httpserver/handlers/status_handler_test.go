package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

func setupStatusTestRouter(service bot.Service) *gin.Engine {
	router := gin.New()
	router.GET("/v1/bots/:uuid/status", handlers.NewStatusHandler(service, "memory", zerolog.Nop()).Get)
	return router
}

func getStatus(t *testing.T, router *gin.Engine, uuid string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, "/v1/bots/"+uuid+"/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return w, body
}

func TestStatusHandler_Active(t *testing.T) {
	ref := "asst_123"
	activated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mockService := &MockBotService{
		ResolveStatusFunc: func(ctx context.Context, botUUID string) (*bot.StatusResolution, error) {
			b := sampleBot(botUUID, bot.StatusActive)
			b.AssistantReference = &ref
			b.ActivatedAt = &activated
			b.SystemPrompt = "secret prompt"
			return &bot.StatusResolution{Bot: b, Cached: true}, nil
		},
	}

	w, body := getStatus(t, setupStatusTestRouter(mockService), "bot-1")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["success"] != true || body["status"] != "active" || body["uuid"] != "bot-1" {
		t.Errorf("unexpected body: %v", body)
	}
	if body["assistantReference"] != ref || body["vapiAssistantId"] != ref {
		t.Errorf("Expected assistant reference under both keys, got %v", body)
	}
	if _, ok := body["activatedAt"]; !ok {
		t.Error("Expected activatedAt for an active bot")
	}
	for _, key := range []string{"ownerId", "systemPrompt", "id", "failureReason"} {
		if _, ok := body[key]; ok {
			t.Errorf("public status must not expose %q", key)
		}
	}
}

func TestStatusHandler_PendingOmitsOptionalFields(t *testing.T) {
	mockService := &MockBotService{
		ResolveStatusFunc: func(ctx context.Context, botUUID string) (*bot.StatusResolution, error) {
			return &bot.StatusResolution{Bot: sampleBot(botUUID, bot.StatusActivating), Triggered: true}, nil
		},
	}

	w, body := getStatus(t, setupStatusTestRouter(mockService), "bot-2")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if body["status"] != "activating" {
		t.Errorf("Expected activating, got %v", body["status"])
	}
	for _, key := range []string{"assistantReference", "vapiAssistantId", "activatedAt"} {
		if _, ok := body[key]; ok {
			t.Errorf("Expected %q to be omitted", key)
		}
	}
	if _, ok := body["activationScheduledAt"]; !ok {
		t.Error("Expected activationScheduledAt")
	}
}

func TestStatusHandler_Errors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantError     string
		wantRetryable bool
		wantRetry     string
	}{
		{
			name:       "unknown bot",
			err:        platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "get bot: not found", nil, "test-404"),
			wantStatus: http.StatusNotFound,
			wantError:  "Bot not found",
		},
		{
			name:          "store unavailable",
			err:           platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeUnavailable, "connection refused", nil, "test-503"),
			wantStatus:    http.StatusServiceUnavailable,
			wantError:     "Bot store temporarily unavailable",
			wantRetryable: true,
			wantRetry:     "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBotService{
				ResolveStatusFunc: func(ctx context.Context, botUUID string) (*bot.StatusResolution, error) {
					return nil, tt.err
				},
			}

			w, body := getStatus(t, setupStatusTestRouter(mockService), "bot-x")

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if body["success"] != false || body["error"] != tt.wantError {
				t.Errorf("unexpected body: %v", body)
			}
			retryable, _ := body["retryable"].(bool)
			if retryable != tt.wantRetryable {
				t.Errorf("Expected retryable %v, got %v", tt.wantRetryable, retryable)
			}
			if got := w.Header().Get("Retry-After"); got != tt.wantRetry {
				t.Errorf("Expected Retry-After %q, got %q", tt.wantRetry, got)
			}
		})
	}
}
