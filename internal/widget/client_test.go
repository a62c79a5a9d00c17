package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/voicebot-api/internal/interfaces/httpserver/middlewares"
)

func TestClient_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/bots/active-bot/status":
			_, _ = w.Write([]byte(`{"success":true,"status":"active","uuid":"active-bot","name":"Support","assistantReference":"asst_1","vapiAssistantId":"asst_1"}`))
		case "/v1/bots/missing/status":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":"Bot not found"}`))
		default:
			w.Header().Set("Retry-After", "5")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"success":false,"error":"Bot store temporarily unavailable","retryable":true}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", nil, zerolog.Nop())
	ctx := context.Background()

	status, err := c.Status(ctx, "active-bot")
	require.NoError(t, err)
	assert.Equal(t, "active", status.Status)
	assert.Equal(t, "asst_1", status.AssistantID())

	_, err = c.Status(ctx, "missing")
	assert.ErrorIs(t, err, ErrBotNotFound)

	_, err = c.Status(ctx, "flaky")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBotNotFound)
}

func TestClient_ReportNavigationAndConfig(t *testing.T) {
	var got NavigationReport
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/navigation/events":
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"success":true}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/widget/config":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"config":{"vapiPublicKey":"pk_live","environment":"production"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, c.ReportNavigation(ctx, NavigationReport{URL: "https://github.com", Success: true, BotUUID: "b1"}))
	assert.Equal(t, NavigationReport{URL: "https://github.com", Command: "navigate", Success: true, BotUUID: "b1"}, got)

	cfg, err := c.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pk_live", cfg.VapiPublicKey)
	assert.Equal(t, "production", cfg.Environment)
}

type headerRecorder struct {
	mu      sync.Mutex
	headers []http.Header
}

func (h *headerRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	h.mu.Lock()
	h.headers = append(h.headers, req.Header.Clone())
	h.mu.Unlock()
	return http.DefaultTransport.RoundTrip(req)
}

func TestClient_SendsOnlyCORSAllowedHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/widget/config":
			_, _ = w.Write([]byte(`{"success":true,"config":{"vapiPublicKey":"pk","environment":"test"}}`))
		case "/v1/navigation/events":
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"status":"pending","uuid":"b1","name":"Support"}`))
		}
	}))
	defer srv.Close()

	rec := &headerRecorder{}
	c := NewClient(srv.URL, rec, zerolog.Nop())
	ctx := context.Background()

	_, err := c.Status(ctx, "b1")
	require.NoError(t, err)
	_, err = c.Config(ctx)
	require.NoError(t, err)
	require.NoError(t, c.ReportNavigation(ctx, NavigationReport{URL: "https://example.com", Success: true}))

	allowed := map[string]bool{
		// safelisted
		"Accept":           true,
		"Accept-Language":  true,
		"Content-Language": true,
		// set by the browser, never by page scripts
		"Accept-Encoding": true,
		"Content-Length":  true,
	}
	for _, h := range strings.Split(middlewares.CORSAllowedHeaders, ",") {
		allowed[http.CanonicalHeaderKey(strings.TrimSpace(h))] = true
	}

	require.Len(t, rec.headers, 3)
	for _, sent := range rec.headers {
		assert.Empty(t, sent.Get("User-Agent"))
		for name := range sent {
			assert.True(t, allowed[name], "header %q would fail the CORS preflight", name)
		}
	}
}
