package navigation

import (
	"context"
	"sync"
	"time"

	domain "jan-server/services/voicebot-api/internal/domain/navigation"
)

// InMemoryRepository keeps events in process, newest last.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID uint
	events []domain.Event
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	stored := *e
	stored.Metadata = copyMetadata(e.Metadata)
	r.events = append(r.events, stored)
	return nil
}

func (r *InMemoryRepository) ListByBot(_ context.Context, botUUID string, limit int) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Event, 0)
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].BotUUID != botUUID {
			continue
		}
		e := r.events[i]
		e.Metadata = copyMetadata(e.Metadata)
		out = append(out, &e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func copyMetadata(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
