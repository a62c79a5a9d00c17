package handlers_test

import (
	"bytes"
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

func setupBotTestRouter(handler *handlers.BotHandler) *gin.Engine {
	router := ownerRouter()
	v1 := router.Group("/v1")
	v1.POST("/bots", handler.Create)
	v1.GET("/bots", handler.List)
	v1.GET("/bots/:uuid", handler.Get)
	v1.DELETE("/bots/:uuid", handler.Delete)
	v1.POST("/bots/:uuid/activate", handler.Activate)
	v1.POST("/bots/:uuid/deactivate", handler.Deactivate)
	v1.PATCH("/bots/:uuid/assistant", handler.SetAssistant)
	v1.GET("/bots/:uuid/embed", handler.Embed)
	return router
}

func sampleBot(uuid string, status bot.Status) *bot.Bot {
	return &bot.Bot{
		UUID:                  uuid,
		OwnerID:               "owner-1",
		Name:                  "Support",
		Voice:                 bot.Voice("jennifer"),
		Status:                status,
		ActivationScheduledAt: time.Now().Add(24 * time.Hour),
		EmbedConfig:           bot.EmbedConfig{Language: "en", Position: bot.Position("right"), Theme: bot.Theme("light")},
		EmbedCode:             `<script defer src="https://api.example.com/widget/voicebot.js"></script>`,
	}
}

func TestBotHandler_Create(t *testing.T) {
	var got bot.CreateParams
	mockService := &MockBotService{
		CreateFunc: func(ctx context.Context, params bot.CreateParams) (*bot.Bot, error) {
			got = params
			return sampleBot("7f1c2a9e-0000-4000-8000-000000000001", bot.StatusPending), nil
		},
	}
	router := setupBotTestRouter(handlers.NewBotHandler(mockService, zerolog.Nop()))

	body, _ := json.Marshal(map[string]any{"name": "Support", "voice": "mark", "position": "left"})
	req, _ := http.NewRequest(http.MethodPost, "/v1/bots", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-Id", "owner-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if got.OwnerID != "owner-1" || got.Name != "Support" || got.Voice != "mark" {
		t.Errorf("unexpected create params: %+v", got)
	}
	if got.EmbedConfig.Position != bot.Position("left") {
		t.Errorf("Expected position left, got %q", got.EmbedConfig.Position)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["status"] != "pending" {
		t.Errorf("Expected status pending, got %v", response["status"])
	}
	if response["embedCode"] == "" {
		t.Error("Expected embed code in response")
	}
}

func TestBotHandler_CreateRejectsMissingName(t *testing.T) {
	called := false
	mockService := &MockBotService{
		CreateFunc: func(ctx context.Context, params bot.CreateParams) (*bot.Bot, error) {
			called = true
			return nil, nil
		},
	}
	router := setupBotTestRouter(handlers.NewBotHandler(mockService, zerolog.Nop()))

	req, _ := http.NewRequest(http.MethodPost, "/v1/bots", bytes.NewBufferString(`{"voice":"mark"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if called {
		t.Error("service must not be called for an invalid body")
	}
}

func TestBotHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantRetry  string
	}{
		{
			name:       "not found",
			err:        platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "bot not found", nil, "test-1"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "conflict",
			err:        platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "bot is already active", nil, "test-2"),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "store unavailable",
			err:        platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeUnavailable, "database unavailable", nil, "test-3"),
			wantStatus: http.StatusServiceUnavailable,
			wantRetry:  "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBotService{
				ActivateFunc: func(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error) {
					return nil, tt.err
				},
			}
			router := setupBotTestRouter(handlers.NewBotHandler(mockService, zerolog.Nop()))

			req, _ := http.NewRequest(http.MethodPost, "/v1/bots/abc/activate", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := w.Header().Get("Retry-After"); got != tt.wantRetry {
				t.Errorf("Expected Retry-After %q, got %q", tt.wantRetry, got)
			}
		})
	}
}

func TestBotHandler_ActivateAccepted(t *testing.T) {
	mockService := &MockBotService{
		ActivateFunc: func(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error) {
			if ownerID != "local-dev" {
				t.Errorf("Expected local-dev owner without header, got %q", ownerID)
			}
			return sampleBot(botUUID, bot.StatusActivating), nil
		},
	}
	router := setupBotTestRouter(handlers.NewBotHandler(mockService, zerolog.Nop()))

	req, _ := http.NewRequest(http.MethodPost, "/v1/bots/abc/activate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", w.Code)
	}
}

func TestBotHandler_SetAssistant(t *testing.T) {
	var gotRef string
	mockService := &MockBotService{
		SetAssistantReferenceFunc: func(ctx context.Context, ownerID, botUUID, ref string) (*bot.Bot, error) {
			gotRef = ref
			b := sampleBot(botUUID, bot.StatusActive)
			b.AssistantReference = &ref
			return b, nil
		},
	}
	router := setupBotTestRouter(handlers.NewBotHandler(mockService, zerolog.Nop()))

	req, _ := http.NewRequest(http.MethodPatch, "/v1/bots/abc/assistant", bytes.NewBufferString(`{"assistantReference":"asst_42"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotRef != "asst_42" {
		t.Errorf("Expected ref asst_42, got %q", gotRef)
	}
}

func TestBotHandler_ListAndEmbed(t *testing.T) {
	mockService := &MockBotService{
		ListFunc: func(ctx context.Context, ownerID string) ([]*bot.Bot, error) {
			return []*bot.Bot{sampleBot("a", bot.StatusPending), sampleBot("b", bot.StatusActive)}, nil
		},
		GetFunc: func(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error) {
			return sampleBot(botUUID, bot.StatusPending), nil
		},
	}
	router := setupBotTestRouter(handlers.NewBotHandler(mockService, zerolog.Nop()))

	req, _ := http.NewRequest(http.MethodGet, "/v1/bots", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var list struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if list.Total != 2 || len(list.Data) != 2 {
		t.Errorf("Expected 2 bots, got %d", list.Total)
	}

	req, _ = http.NewRequest(http.MethodGet, "/v1/bots/abc/embed", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var embed map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &embed); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if embed["uuid"] != "abc" || embed["embedCode"] == "" {
		t.Errorf("unexpected embed response: %v", embed)
	}
}
