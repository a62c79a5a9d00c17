// Package vapi provisions voice assistants through the Vapi REST API.
package vapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"jan-server/services/voicebot-api/internal/config"
	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/utils/httpclients"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

const (
	maxAssistantNameLength = 40
	knowledgeBaseFooter    = "Use the above knowledge base to answer questions when relevant. If the information is not in the knowledge base, provide general helpful responses."
)

// ErrRejected marks a request Vapi refused; retrying it cannot succeed.
var ErrRejected = errors.New("vapi rejected the request")

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type model struct {
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

type createAssistantRequest struct {
	Name         string `json:"name"`
	Model        model  `json:"model"`
	Voice        voice  `json:"voice"`
	FirstMessage string `json:"firstMessage,omitempty"`
}

type assistantResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message any    `json:"message"`
	Error   string `json:"error"`
}

// Client creates assistants. It implements bot.Provisioner.
type Client struct {
	http   *resty.Client
	model  string
	dryRun bool
	log    zerolog.Logger
}

// NewClient builds a client for VAPI_BASE_URL authenticated with the private key.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	logger := log.With().Str("component", "vapi-client").Logger()
	httpClient := httpclients.NewClient("vapi", logger).
		SetBaseURL(cfg.VapiBaseURL).
		SetHeader("Authorization", "Bearer "+cfg.VapiPrivateKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.ProvisionTimeout)

	if cfg.VapiDryRun {
		logger.Warn().Msg("VAPI_DRY_RUN is enabled; assistants will not be created")
	}
	return &Client{
		http:   httpClient,
		model:  cfg.VapiModel,
		dryRun: cfg.VapiDryRun,
		log:    logger,
	}
}

// Provision creates an assistant for the bot and returns its id.
func (c *Client) Provision(ctx context.Context, b *bot.Bot, knowledgeBase string) (string, error) {
	body := BuildAssistantRequest(b, c.model, knowledgeBase)

	if c.dryRun {
		id := "dryrun-" + uuid.NewString()
		c.log.Info().Str("bot_uuid", b.UUID).Str("assistant_id", id).Msg("dry run assistant")
		return id, nil
	}

	start := time.Now()
	var result assistantResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/assistant")
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "vapi request failed", err, "b1d3f5a7-9c0e-4b2d-8f4a-6c8e0a2b4d61")
	}
	if resp.IsError() {
		return "", statusError(ctx, resp.StatusCode(), apiErr)
	}
	if strings.TrimSpace(result.ID) == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "vapi response has no assistant id", nil, "d3f5b7c9-1e2a-4d4f-9a6c-8e0a2c4d6f83")
	}

	c.log.Info().
		Str("bot_uuid", b.UUID).
		Str("assistant_id", result.ID).
		Dur("latency", time.Since(start)).
		Msg("assistant created")
	return result.ID, nil
}

// BuildAssistantRequest renders the assistant definition for a bot.
func BuildAssistantRequest(b *bot.Bot, modelName, knowledgeBase string) any {
	prompt := b.SystemPrompt
	if b.RAGEnabled && strings.TrimSpace(knowledgeBase) != "" {
		prompt = fmt.Sprintf("%s\n\nKnowledge Base:\n%s\n\n%s", b.SystemPrompt, knowledgeBase, knowledgeBaseFooter)
	}

	name := b.Name
	if r := []rune(name); len(r) > maxAssistantNameLength {
		name = string(r[:maxAssistantNameLength])
	}

	return createAssistantRequest{
		Name: name,
		Model: model{
			Provider: "openai",
			Model:    modelName,
			Messages: []message{{Role: "system", Content: prompt}},
		},
		Voice: voice{
			Provider: "11labs",
			VoiceID:  b.Voice.ProviderID(),
		},
		FirstMessage: b.WelcomeMessage,
	}
}

func statusError(ctx context.Context, status int, apiErr errorResponse) error {
	detail := strings.TrimSpace(apiErr.Error)
	if apiErr.Message != nil {
		detail = strings.TrimSpace(fmt.Sprintf("%s %v", detail, apiErr.Message))
	}
	msg := fmt.Sprintf("vapi api error: %d %s", status, detail)

	var cause error = fmt.Errorf("status %d", status)
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout {
		cause = fmt.Errorf("%w: status %d", ErrRejected, status)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, strings.TrimSpace(msg), cause, "f5b7d9e1-3a4c-4f6b-8c8e-0a2c4e6f8b05")
}

// IsRetryable reports whether a provisioning error may succeed on another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return !errors.Is(err, ErrRejected)
}
