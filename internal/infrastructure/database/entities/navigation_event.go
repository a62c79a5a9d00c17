package entities

import (
	"time"

	"gorm.io/datatypes"

	"jan-server/services/voicebot-api/internal/domain/navigation"
)

type NavigationEvent struct {
	ID        uint              `gorm:"primaryKey;autoIncrement"`
	BotUUID   string            `gorm:"type:varchar(64);not null;index:idx_navigation_event_bot,priority:1"`
	URL       string            `gorm:"type:varchar(2048);not null"`
	Command   string            `gorm:"type:text;not null"`
	Success   bool              `gorm:"not null"`
	Intent    string            `gorm:"type:varchar(16);not null"`
	Origin    string            `gorm:"type:varchar(512);not null"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index:idx_navigation_event_bot,priority:2,sort:desc"`
}

func (NavigationEvent) TableName() string {
	return "navigation_event"
}

func NewSchemaNavigationEvent(e *navigation.Event) *NavigationEvent {
	metadata := datatypes.JSONMap{}
	for k, v := range e.Metadata {
		metadata[k] = v
	}
	return &NavigationEvent{
		ID:        e.ID,
		BotUUID:   e.BotUUID,
		URL:       e.URL,
		Command:   e.Command,
		Success:   e.Success,
		Intent:    e.Intent,
		Origin:    e.Origin,
		Metadata:  metadata,
		CreatedAt: e.CreatedAt,
	}
}

func (e *NavigationEvent) EtoD() *navigation.Event {
	metadata := make(map[string]any, len(e.Metadata))
	for k, v := range e.Metadata {
		metadata[k] = v
	}
	return &navigation.Event{
		ID:        e.ID,
		BotUUID:   e.BotUUID,
		URL:       e.URL,
		Command:   e.Command,
		Success:   e.Success,
		Intent:    e.Intent,
		Origin:    e.Origin,
		Metadata:  metadata,
		CreatedAt: e.CreatedAt,
	}
}
