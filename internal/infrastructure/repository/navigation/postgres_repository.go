package navigation

import (
	"context"

	"gorm.io/gorm"

	domain "jan-server/services/voicebot-api/internal/domain/navigation"
	"jan-server/services/voicebot-api/internal/infrastructure/database"
	"jan-server/services/voicebot-api/internal/infrastructure/database/entities"
)

// PostgresRepository stores navigation events in PostgreSQL.
type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	record := entities.NewSchemaNavigationEvent(e)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return database.Classify(ctx, err, "create navigation event", "1f3b5d7e-9a0c-4e2f-8b4d-6a8c0e1f3b51")
	}
	e.ID = record.ID
	e.CreatedAt = record.CreatedAt
	return nil
}

// ListByBot reads from the replica when one is configured.
func (r *PostgresRepository) ListByBot(ctx context.Context, botUUID string, limit int) ([]*domain.Event, error) {
	var records []entities.NavigationEvent
	err := r.db.WithContext(ctx).
		Where("bot_uuid = ?", botUUID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, database.Classify(ctx, err, "list navigation events", "3b5d7f9a-1c2e-4a4b-9d6f-8c0e2a3b5d73")
	}
	out := make([]*domain.Event, 0, len(records))
	for i := range records {
		out = append(out, records[i].EtoD())
	}
	return out, nil
}
