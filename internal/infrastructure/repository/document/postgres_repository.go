package document

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	domain "jan-server/services/voicebot-api/internal/domain/document"
	"jan-server/services/voicebot-api/internal/infrastructure/database"
	"jan-server/services/voicebot-api/internal/infrastructure/database/entities"
)

// PostgresRepository stores document metadata in PostgreSQL.
type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d *domain.Document) error {
	record := entities.NewSchemaBotDocument(d)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return database.Classify(ctx, err, "create document", "5b7d9f1a-3c4e-4a6b-8d8f-0a2c4e6b8d15")
	}
	d.CreatedAt = record.CreatedAt
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, botUUID, id string) (*domain.Document, error) {
	var record entities.BotDocument
	err := r.db.WithContext(ctx).
		Where("bot_uuid = ? AND id = ?", botUUID, id).
		First(&record).Error
	if err != nil {
		return nil, database.Classify(ctx, err, "get document", "7d9f1b3c-5e6a-4c8d-9f0b-2c4e6a8d0f37")
	}
	return record.EtoD(), nil
}

func (r *PostgresRepository) ListByBot(ctx context.Context, botUUID string) ([]*domain.Document, error) {
	var records []entities.BotDocument
	err := r.db.WithContext(ctx).
		Where("bot_uuid = ?", botUUID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, database.Classify(ctx, err, "list documents", "9f1b3d5e-7a8c-4e0f-8b2d-4e6a8c0f2b59")
	}
	out := make([]*domain.Document, 0, len(records))
	for i := range records {
		out = append(out, records[i].EtoD())
	}
	return out, nil
}

func (r *PostgresRepository) FindBySha256(ctx context.Context, botUUID, sum string) (*domain.Document, error) {
	var record entities.BotDocument
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("bot_uuid = ? AND sha256 = ?", botUUID, sum).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Classify(ctx, err, "find document by checksum", "1b3d5f7a-9c0e-4a2b-9d4f-6a8c0e2b4d71")
	}
	return record.EtoD(), nil
}
