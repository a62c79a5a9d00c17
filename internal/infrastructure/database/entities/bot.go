package entities

import (
	"time"

	"jan-server/services/voicebot-api/internal/domain/bot"
)

// Bot models the persisted representation of a voice bot.
type Bot struct {
	ID                    uint       `gorm:"primaryKey;autoIncrement"`
	UUID                  string     `gorm:"type:uuid;uniqueIndex;not null"`
	OwnerID               string     `gorm:"type:varchar(128);index;not null"`
	Name                  string     `gorm:"type:varchar(120);not null"`
	WelcomeMessage        string     `gorm:"type:text;not null"`
	SystemPrompt          string     `gorm:"type:text;not null"`
	Voice                 string     `gorm:"type:varchar(32);not null"`
	RAGEnabled            bool       `gorm:"column:rag_enabled;not null"`
	Status                string     `gorm:"type:varchar(20);not null;index"`
	ActivationScheduledAt time.Time  `gorm:"not null"`
	ActivatedAt           *time.Time
	AssistantReference    *string   `gorm:"type:varchar(255)"`
	FailureReason         *string   `gorm:"type:text"`
	Language              string    `gorm:"type:varchar(16);not null"`
	Position              string    `gorm:"type:varchar(8);not null"`
	Theme                 string    `gorm:"type:varchar(8);not null"`
	EmbedCode             string    `gorm:"type:text;not null"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}

func (Bot) TableName() string {
	return "bot"
}

// NewSchemaBot maps the domain bot to its row.
func NewSchemaBot(b *bot.Bot) *Bot {
	return &Bot{
		ID:                    b.ID,
		UUID:                  b.UUID,
		OwnerID:               b.OwnerID,
		Name:                  b.Name,
		WelcomeMessage:        b.WelcomeMessage,
		SystemPrompt:          b.SystemPrompt,
		Voice:                 string(b.Voice),
		RAGEnabled:            b.RAGEnabled,
		Status:                string(b.Status),
		ActivationScheduledAt: b.ActivationScheduledAt,
		ActivatedAt:           b.ActivatedAt,
		AssistantReference:    b.AssistantReference,
		FailureReason:         b.FailureReason,
		Language:              b.EmbedConfig.Language,
		Position:              string(b.EmbedConfig.Position),
		Theme:                 string(b.EmbedConfig.Theme),
		EmbedCode:             b.EmbedCode,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

// EtoD converts the row into the domain bot.
func (e *Bot) EtoD() *bot.Bot {
	return &bot.Bot{
		ID:                    e.ID,
		UUID:                  e.UUID,
		OwnerID:               e.OwnerID,
		Name:                  e.Name,
		WelcomeMessage:        e.WelcomeMessage,
		SystemPrompt:          e.SystemPrompt,
		Voice:                 bot.Voice(e.Voice),
		RAGEnabled:            e.RAGEnabled,
		Status:                bot.Status(e.Status),
		ActivationScheduledAt: e.ActivationScheduledAt,
		ActivatedAt:           e.ActivatedAt,
		AssistantReference:    e.AssistantReference,
		FailureReason:         e.FailureReason,
		EmbedConfig: bot.EmbedConfig{
			Language: e.Language,
			Position: bot.Position(e.Position),
			Theme:    bot.Theme(e.Theme),
		},
		EmbedCode: e.EmbedCode,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
