package bot

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

// Position is the corner the widget is pinned to.
type Position string

const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// Theme is the widget colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const DefaultLanguage = "en"

// EmbedConfig holds display parameters baked into the embed snippet at creation time.
type EmbedConfig struct {
	Language string   `json:"language"`
	Position Position `json:"position"`
	Theme    Theme    `json:"theme"`
}

// Normalize replaces missing or unknown values with defaults.
func (e EmbedConfig) Normalize() EmbedConfig {
	e.Language = strings.TrimSpace(e.Language)
	if e.Language == "" {
		e.Language = DefaultLanguage
	}
	if e.Position != PositionLeft {
		e.Position = PositionRight
	}
	if e.Theme != ThemeDark {
		e.Theme = ThemeLight
	}
	return e
}

// Voice names a preset synthesized voice.
type Voice string

const DefaultVoice Voice = "jennifer"

var voiceIDs = map[Voice]string{
	"jennifer": "EXAVITQu4vr4xnSDxMaL",
	"mark":     "TxGEqnHWrfWFTfGW9XjX",
	"sarah":    "pNInz6obpgDQGcFmaJgB",
	"david":    "VR6AewLTigWG4xSOukaG",
	"emma":     "jsCqWAovK2LkecY7zXl4",
	"alex":     "pqHfZKP75CvOlQylNhV4",
}

// ParseVoice lower-cases the name and falls back to the default voice when unknown.
func ParseVoice(raw string) Voice {
	v := Voice(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := voiceIDs[v]; ok {
		return v
	}
	return DefaultVoice
}

// ProviderID returns the 11labs voice id for the preset.
func (v Voice) ProviderID() string {
	if id, ok := voiceIDs[v]; ok {
		return id
	}
	return voiceIDs[DefaultVoice]
}

// Bot is the unit of lifecycle management.
type Bot struct {
	ID                    uint
	UUID                  string
	OwnerID               string
	Name                  string
	WelcomeMessage        string
	SystemPrompt          string
	Voice                 Voice
	RAGEnabled            bool
	Status                Status
	ActivationScheduledAt time.Time
	ActivatedAt           *time.Time
	AssistantReference    *string
	FailureReason         *string
	EmbedConfig           EmbedConfig
	EmbedCode             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsDue reports whether the scheduled activation instant has passed.
func (b *Bot) IsDue(now time.Time) bool {
	return !now.Before(b.ActivationScheduledAt)
}

// IsUsable reports whether a widget can start a session with this bot.
func (b *Bot) IsUsable() bool {
	return b.Status == StatusActive && b.AssistantReference != nil && *b.AssistantReference != ""
}

// ActivationResult is the outcome written by the provisioning continuation.
type ActivationResult struct {
	Status             Status
	AssistantReference *string
	ActivatedAt        *time.Time
	FailureReason      *string
}

// Succeeded builds an active result stamped at now.
func Succeeded(assistantRef string, now time.Time) ActivationResult {
	at := now.UTC()
	result := ActivationResult{Status: StatusActive, ActivatedAt: &at}
	if assistantRef != "" {
		result.AssistantReference = &assistantRef
	}
	return result
}

// Failed builds a failed result carrying the provisioning error.
func Failed(reason string) ActivationResult {
	return ActivationResult{Status: StatusFailed, FailureReason: &reason}
}

// CreateParams carries the owner supplied fields for a new bot.
type CreateParams struct {
	OwnerID        string
	Name           string
	WelcomeMessage string
	SystemPrompt   string
	Voice          string
	RAGEnabled     bool
	EmbedConfig    EmbedConfig
}

// StatusResolution is the outcome of a public status read.
type StatusResolution struct {
	Bot *Bot
	// Triggered is true when this read performed the pending to activating transition.
	Triggered bool
	Cached    bool
}

// CheckUUID returns NOT_FOUND for identifiers that are not canonical UUIDs.
// No stored bot can match them, and the uuid column would reject them as a
// query error instead of a miss.
func CheckUUID(ctx context.Context, botUUID string) error {
	if len(botUUID) == 36 {
		if _, err := uuid.Parse(botUUID); err == nil {
			return nil
		}
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "bot not found", nil, "5e7a9c1b-3d4f-4a6c-8e0b-2d4f6a8c0e31")
}
