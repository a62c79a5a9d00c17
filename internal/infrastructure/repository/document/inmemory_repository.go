package document

import (
	"context"
	"sort"
	"sync"

	domain "jan-server/services/voicebot-api/internal/domain/document"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

// InMemoryRepository keeps document metadata in process.
type InMemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{docs: make(map[string]domain.Document)}
}

func (r *InMemoryRepository) Create(ctx context.Context, d *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.docs {
		if existing.BotUUID == d.BotUUID && existing.Sha256 == d.Sha256 {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "document already exists", nil, "3d5f7b9c-1e2a-4c4d-8f6b-8c0e2a4d6f93")
		}
	}
	r.docs[d.ID] = *d
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, botUUID, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[id]
	if !ok || d.BotUUID != botUUID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "get document: not found", nil, "5f7b9d1e-3a4c-4e6f-9b8d-0e2a4c6f8b15")
	}
	return &d, nil
}

func (r *InMemoryRepository) ListByBot(_ context.Context, botUUID string) ([]*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Document, 0)
	for _, d := range r.docs {
		if d.BotUUID == botUUID {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) FindBySha256(_ context.Context, botUUID, sum string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.docs {
		if d.BotUUID == botUUID && d.Sha256 == sum {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}
