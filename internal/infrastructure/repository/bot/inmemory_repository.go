package bot

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository for tests and local runs.
// Every method copies in and out so callers never share state with the store.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID uint
	bots   map[string]*domain.Bot
}

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{bots: make(map[string]*domain.Bot)}
}

func (r *InMemoryRepository) Create(ctx context.Context, b *domain.Bot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bots[b.UUID]; exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "create bot: uuid already exists", nil, "1a3c5e7f-9b0d-4f2a-8c4e-6a8c0e2a4c61")
	}
	r.nextID++
	b.ID = r.nextID
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	r.bots[b.UUID] = clone(b)
	return nil
}

func (r *InMemoryRepository) GetByUUID(ctx context.Context, uuid string) (*domain.Bot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bots[uuid]
	if !ok {
		return nil, notFound(ctx)
	}
	return clone(b), nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Bot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Bot, 0)
	for _, b := range r.bots {
		if b.OwnerID == ownerID {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Bot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Bot, 0)
	for _, b := range r.bots {
		if b.Status == domain.StatusPending && b.IsDue(now) {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivationScheduledAt.Before(out[j].ActivationScheduledAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) CompareAndSetStatus(ctx context.Context, uuid string, expected, next domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bots[uuid]
	if !ok {
		return false, notFound(ctx)
	}
	if b.Status != expected {
		return false, nil
	}
	b.Status = next
	b.FailureReason = nil
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *InMemoryRepository) SetActivationResult(ctx context.Context, uuid string, res domain.ActivationResult) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bots[uuid]
	if !ok {
		return false, notFound(ctx)
	}
	if b.Status != domain.StatusActivating {
		return false, nil
	}
	b.Status = res.Status
	b.ActivatedAt = copyTime(res.ActivatedAt)
	b.FailureReason = copyString(res.FailureReason)
	if res.AssistantReference != nil {
		b.AssistantReference = copyString(res.AssistantReference)
	}
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *InMemoryRepository) Deactivate(ctx context.Context, uuid string, nextScheduledAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bots[uuid]
	if !ok {
		return false, notFound(ctx)
	}
	if b.Status != domain.StatusActive {
		return false, nil
	}
	b.Status = domain.StatusPending
	b.AssistantReference = nil
	b.ActivatedAt = nil
	b.FailureReason = nil
	b.ActivationScheduledAt = nextScheduledAt.UTC()
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *InMemoryRepository) SetAssistantReference(ctx context.Context, uuid string, ref *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bots[uuid]
	if !ok {
		return notFound(ctx)
	}
	b.AssistantReference = copyString(ref)
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bots[uuid]; !ok {
		return notFound(ctx)
	}
	delete(r.bots, uuid)
	return nil
}

func notFound(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "get bot: not found", nil, "3c5e7a9b-1d2f-4b4c-9e6a-8c0e2a4c6e83")
}

func clone(b *domain.Bot) *domain.Bot {
	c := *b
	c.ActivatedAt = copyTime(b.ActivatedAt)
	c.AssistantReference = copyString(b.AssistantReference)
	c.FailureReason = copyString(b.FailureReason)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
