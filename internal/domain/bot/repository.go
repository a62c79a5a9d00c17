package bot

import (
	"context"
	"time"
)

// Repository persists bots. Missing rows are reported as NOT_FOUND platform errors and
// store outages as UNAVAILABLE so callers can tell the two apart.
type Repository interface {
	Create(ctx context.Context, b *Bot) error
	GetByUUID(ctx context.Context, uuid string) (*Bot, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Bot, error)
	// ListDue returns pending bots whose scheduled activation is at or before now.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*Bot, error)
	// CompareAndSetStatus moves the bot from expected to next in one conditional write.
	// It reports false without error when the bot was no longer in the expected status.
	CompareAndSetStatus(ctx context.Context, uuid string, expected, next Status) (bool, error)
	// SetActivationResult records the provisioning outcome if the bot is still activating.
	SetActivationResult(ctx context.Context, uuid string, result ActivationResult) (bool, error)
	// Deactivate moves an active bot back to pending, clearing its assistant reference
	// and activation stamp, and reschedules automatic activation.
	Deactivate(ctx context.Context, uuid string, nextScheduledAt time.Time) (bool, error)
	SetAssistantReference(ctx context.Context, uuid string, ref *string) error
	Delete(ctx context.Context, uuid string) error
}

// StatusCache keeps usable bots close to the public status endpoint.
type StatusCache interface {
	Get(ctx context.Context, uuid string) (*Bot, bool)
	Set(ctx context.Context, b *Bot)
	Invalidate(ctx context.Context, uuid string)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*Bot, bool) { return nil, false }
func (noopCache) Set(context.Context, *Bot)                {}
func (noopCache) Invalidate(context.Context, string)       {}
