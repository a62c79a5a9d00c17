package widget

import (
	"context"
	"errors"
	"fmt"

	"jan-server/services/voicebot-api/internal/domain/bot"
)

// State is the widget's rendered state.
type State string

const (
	StateReady   State = "ready"
	StatePending State = "pending"
	StateError   State = "error"
)

// Resolution is the single answer the widget renders from.
type Resolution struct {
	State       State
	AssistantID string
	Message     string
}

const shortIDLength = 8

// Resolve decides what to render. A direct assistant id never touches the network.
func Resolve(ctx context.Context, attrs Attributes, api API) Resolution {
	if attrs.AssistantID != "" {
		return Resolution{State: StateReady, AssistantID: attrs.AssistantID}
	}
	if attrs.ChatbotUUID == "" {
		return Resolution{State: StateError, Message: "Voice bot is missing its id"}
	}

	status, err := api.Status(ctx, attrs.ChatbotUUID)
	switch {
	case errors.Is(err, ErrBotNotFound):
		return Resolution{State: StateError, Message: fmt.Sprintf("Bot not found (ID: %s...)", shortID(attrs.ChatbotUUID))}
	case err != nil:
		return Resolution{State: StatePending}
	}

	if status.Success && status.Status == string(bot.StatusActive) && status.AssistantID() != "" {
		return Resolution{State: StateReady, AssistantID: status.AssistantID()}
	}
	return Resolution{State: StatePending}
}

func shortID(id string) string {
	r := []rune(id)
	if len(r) <= shortIDLength {
		return id
	}
	return string(r[:shortIDLength])
}
