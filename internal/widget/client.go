package widget

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"jan-server/services/voicebot-api/internal/domain/navigation"
	"jan-server/services/voicebot-api/internal/domain/voicecommand"
	"jan-server/services/voicebot-api/internal/utils/httpclients"
)

// ErrBotNotFound is returned when the status endpoint answers 404.
var ErrBotNotFound = errors.New("bot not found")

// StatusResponse mirrors the public status payload.
type StatusResponse struct {
	Success            bool   `json:"success"`
	Status             string `json:"status"`
	UUID               string `json:"uuid"`
	Name               string `json:"name"`
	AssistantReference string `json:"assistantReference,omitempty"`
	VapiAssistantID    string `json:"vapiAssistantId,omitempty"`
	Error              string `json:"error,omitempty"`
}

// AssistantID prefers the current field name and accepts the legacy one.
func (s *StatusResponse) AssistantID() string {
	if s.AssistantReference != "" {
		return s.AssistantReference
	}
	return s.VapiAssistantID
}

// NavigationReport is the body posted after a navigation attempt.
type NavigationReport struct {
	URL     string `json:"url"`
	Command string `json:"command"`
	Success bool   `json:"success"`
	BotUUID string `json:"botUuid"`
}

// Config is the public widget configuration.
type Config struct {
	VapiPublicKey string                  `json:"vapiPublicKey"`
	Environment   string                  `json:"environment"`
	Shortcuts     []voicecommand.Shortcut `json:"shortcuts,omitempty"`
}

type configResponse struct {
	Success bool   `json:"success"`
	Config  Config `json:"config"`
}

// API is the widget's view of the voicebot service.
type API interface {
	Status(ctx context.Context, botUUID string) (*StatusResponse, error)
	ReportNavigation(ctx context.Context, report NavigationReport) error
	Config(ctx context.Context) (*Config, error)
}

// Client talks to the service that served the widget script.
type Client struct {
	origin string
	client *resty.Client
}

// NewClient creates an API client bound to origin. transport may be nil.
func NewClient(origin string, transport http.RoundTripper, log zerolog.Logger) *Client {
	c := httpclients.NewBrowserClient("widget", log)
	if transport != nil {
		c.SetTransport(transport)
	}
	return &Client{origin: strings.TrimRight(origin, "/"), client: c}
}

func (c *Client) Status(ctx context.Context, botUUID string) (*StatusResponse, error) {
	var out StatusResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("uuid", botUUID).
		SetResult(&out).
		SetError(&out).
		Get(c.origin + "/v1/bots/{uuid}/status")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrBotNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status request failed: %d", resp.StatusCode())
	}
	return &out, nil
}

func (c *Client) ReportNavigation(ctx context.Context, report NavigationReport) error {
	if report.Command == "" {
		report.Command = navigation.CommandNavigate
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(report).
		Post(c.origin + "/v1/navigation/events")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("navigation report rejected: %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) Config(ctx context.Context) (*Config, error) {
	var out configResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get(c.origin + "/v1/widget/config")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || !out.Success {
		return nil, fmt.Errorf("widget config request failed: %d", resp.StatusCode())
	}
	return &out.Config, nil
}
