package bot

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	domain "jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/infrastructure/database"
	"jan-server/services/voicebot-api/internal/infrastructure/database/entities"
)

// PostgresRepository persists bots via PostgreSQL using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *domain.Bot) error {
	record := entities.NewSchemaBot(b)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return database.Classify(ctx, err, "create bot", "6b1d3f5a-7c9e-4b2d-8f4a-0c6e8a2b4d6f")
	}
	b.ID = record.ID
	b.CreatedAt = record.CreatedAt
	b.UpdatedAt = record.UpdatedAt
	return nil
}

// GetByUUID always reads from the primary so lifecycle decisions never act on replica lag.
func (r *PostgresRepository) GetByUUID(ctx context.Context, uuid string) (*domain.Bot, error) {
	var record entities.Bot
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("uuid = ?", uuid).
		First(&record).Error
	if err != nil {
		return nil, database.Classify(ctx, err, "get bot", "0e2a4c6f-8b1d-4e3a-9c5f-7a9b1d3e5f70")
	}
	return record.EtoD(), nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Bot, error) {
	var records []entities.Bot
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, database.Classify(ctx, err, "list bots", "2c4e6a8b-0d1f-4a3c-8e5b-9f1a3c5e7b92")
	}
	return toDomain(records), nil
}

func (r *PostgresRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Bot, error) {
	var records []entities.Bot
	query := r.db.WithContext(ctx).
		Where("status = ? AND activation_scheduled_at <= ?", string(domain.StatusPending), now.UTC()).
		Order("activation_scheduled_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, database.Classify(ctx, err, "list due bots", "4e6a8c0d-2f3b-4c5e-9a7d-1b3c5e7f9a14")
	}
	return toDomain(records), nil
}

// CompareAndSetStatus is a single conditional UPDATE; RowsAffected decides the winner.
func (r *PostgresRepository) CompareAndSetStatus(ctx context.Context, uuid string, expected, next domain.Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Bot{}).
		Where("uuid = ? AND status = ?", uuid, string(expected)).
		Updates(map[string]any{
			"status":         string(next),
			"failure_reason": nil,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, database.Classify(ctx, result.Error, "compare and set bot status", "6a8c0e2f-4b5d-4e7a-8c9f-3d5e7a9b1c36")
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) SetActivationResult(ctx context.Context, uuid string, res domain.ActivationResult) (bool, error) {
	updates := map[string]any{
		"status":         string(res.Status),
		"activated_at":   res.ActivatedAt,
		"failure_reason": res.FailureReason,
		"updated_at":     time.Now().UTC(),
	}
	if res.AssistantReference != nil {
		updates["assistant_reference"] = *res.AssistantReference
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Bot{}).
		Where("uuid = ? AND status = ?", uuid, string(domain.StatusActivating)).
		Updates(updates)
	if result.Error != nil {
		return false, database.Classify(ctx, result.Error, "set activation result", "8c0e2a4b-6d7f-4a9c-9e1b-5f7a9c1d3e58")
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, uuid string, nextScheduledAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Bot{}).
		Where("uuid = ? AND status = ?", uuid, string(domain.StatusActive)).
		Updates(map[string]any{
			"status":                  string(domain.StatusPending),
			"assistant_reference":     nil,
			"activated_at":            nil,
			"failure_reason":          nil,
			"activation_scheduled_at": nextScheduledAt.UTC(),
			"updated_at":              time.Now().UTC(),
		})
	if result.Error != nil {
		return false, database.Classify(ctx, result.Error, "deactivate bot", "a0c2e4f6-8b9d-4c1e-8a3f-7b9d1e3f5a70")
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) SetAssistantReference(ctx context.Context, uuid string, ref *string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Bot{}).
		Where("uuid = ?", uuid).
		Updates(map[string]any{
			"assistant_reference": ref,
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return database.Classify(ctx, result.Error, "set assistant reference", "c2e4a6b8-0d1f-4e3a-9c5b-9d1f3a5b7c92")
	}
	if result.RowsAffected == 0 {
		return database.Classify(ctx, gorm.ErrRecordNotFound, "set assistant reference", "c2e4a6b8-0d1f-4e3a-9c5b-9d1f3a5b7c93")
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, uuid string) error {
	result := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&entities.Bot{})
	if result.Error != nil {
		return database.Classify(ctx, result.Error, "delete bot", "e4a6c8d0-2f3b-4a5c-8e7d-1f3b5c7d9e14")
	}
	if result.RowsAffected == 0 {
		return database.Classify(ctx, gorm.ErrRecordNotFound, "delete bot", "e4a6c8d0-2f3b-4a5c-8e7d-1f3b5c7d9e15")
	}
	return nil
}

func toDomain(records []entities.Bot) []*domain.Bot {
	out := make([]*domain.Bot, 0, len(records))
	for i := range records {
		out = append(out, records[i].EtoD())
	}
	return out
}
