package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/navigation"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

func setupNavigationTestRouter(handler *handlers.NavigationHandler) *gin.Engine {
	router := ownerRouter()
	router.POST("/v1/navigation/events", handler.Record)
	router.GET("/v1/bots/:uuid/navigation-events", handler.List)
	return router
}

func TestNavigationHandler_Record(t *testing.T) {
	var got navigation.RecordParams
	mockService := &MockNavigationService{
		RecordFunc: func(ctx context.Context, params navigation.RecordParams) (*navigation.Event, error) {
			got = params
			return &navigation.Event{Intent: "domain", Success: params.Success}, nil
		},
	}
	router := setupNavigationTestRouter(handlers.NewNavigationHandler(mockService, zerolog.Nop()))

	body := `{"url":"https://youtube.com","command":"open youtube","success":true,"botUuid":"bot-1"}`
	req, _ := http.NewRequest(http.MethodPost, "/v1/navigation/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://customer.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}
	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["success"] != true {
		t.Errorf("Expected success true, got %v", response)
	}
	if got.URL != "https://youtube.com" || got.Command != "open youtube" || !got.Success || got.BotUUID != "bot-1" {
		t.Errorf("unexpected record params: %+v", got)
	}
	if got.Origin != "https://customer.example" {
		t.Errorf("Expected origin header to be recorded, got %q", got.Origin)
	}
}

func TestNavigationHandler_RecordInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `url=https://x.example`},
		{name: "missing url", body: `{"success":true}`},
		{name: "missing success", body: `{"url":"https://x.example"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mockService := &MockNavigationService{
				RecordFunc: func(ctx context.Context, params navigation.RecordParams) (*navigation.Event, error) {
					called = true
					return &navigation.Event{}, nil
				},
			}
			router := setupNavigationTestRouter(handlers.NewNavigationHandler(mockService, zerolog.Nop()))

			req, _ := http.NewRequest(http.MethodPost, "/v1/navigation/events", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
			if called {
				t.Error("service must not be called for an invalid body")
			}
		})
	}
}

func TestNavigationHandler_RecordUnknownBot(t *testing.T) {
	mockService := &MockNavigationService{
		RecordFunc: func(ctx context.Context, params navigation.RecordParams) (*navigation.Event, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "get bot: not found", nil, "test-nav")
		},
	}
	router := setupNavigationTestRouter(handlers.NewNavigationHandler(mockService, zerolog.Nop()))

	req, _ := http.NewRequest(http.MethodPost, "/v1/navigation/events", bytes.NewBufferString(`{"url":"https://x.example","success":false,"botUuid":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestNavigationHandler_ListPassesOwnerAndLimit(t *testing.T) {
	mockService := &MockNavigationService{
		ListFunc: func(ctx context.Context, ownerID, botUUID string, limit int) ([]*navigation.Event, error) {
			if ownerID != "owner-9" || botUUID != "bot-1" || limit != 5 {
				t.Errorf("unexpected list args: %s %s %d", ownerID, botUUID, limit)
			}
			return []*navigation.Event{{ID: 1, URL: "https://a.example", Intent: "url"}}, nil
		},
	}
	router := setupNavigationTestRouter(handlers.NewNavigationHandler(mockService, zerolog.Nop()))

	req, _ := http.NewRequest(http.MethodGet, "/v1/bots/bot-1/navigation-events?limit=5", nil)
	req.Header.Set("X-Owner-Id", "owner-9")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var list struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("Expected 1 event, got %d", list.Total)
	}
}
