// Package navigation records the outcome of widget driven page navigations.
package navigation

import (
	"context"
	"time"
)

// CommandNavigate is stored when the host page, not a transcript, asked for the navigation.
const CommandNavigate = "navigate"

// Event is one reported navigation attempt.
type Event struct {
	ID        uint
	BotUUID   string
	URL       string
	Command   string
	Success   bool
	Intent    string
	Origin    string
	Metadata  map[string]any
	CreatedAt time.Time
}

// RecordParams is the widget's report plus request context.
type RecordParams struct {
	BotUUID   string
	URL       string
	Command   string
	Success   bool
	Origin    string
	UserAgent string
	RequestID string
}

// Repository persists navigation events.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	ListByBot(ctx context.Context, botUUID string, limit int) ([]*Event, error)
}
