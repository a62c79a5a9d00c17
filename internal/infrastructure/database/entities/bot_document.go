package entities

import (
	"time"

	"jan-server/services/voicebot-api/internal/domain/document"
)

type BotDocument struct {
	ID              string    `gorm:"type:varchar(40);primaryKey"`
	BotUUID         string    `gorm:"type:uuid;not null;index:idx_bot_document_bot,priority:1;uniqueIndex:idx_bot_document_dedupe,priority:1"`
	FileName        string    `gorm:"type:varchar(255);not null"`
	MimeType        string    `gorm:"type:varchar(128);not null"`
	Bytes           int64     `gorm:"not null"`
	Sha256          string    `gorm:"column:sha256;type:char(64);not null;uniqueIndex:idx_bot_document_dedupe,priority:2"`
	StorageKey      string    `gorm:"type:varchar(512);not null"`
	StorageProvider string    `gorm:"type:varchar(16);not null"`
	WordCount       int       `gorm:"not null"`
	ChunkCount      int       `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_bot_document_bot,priority:2"`
}

func (BotDocument) TableName() string {
	return "bot_document"
}

func NewSchemaBotDocument(d *document.Document) *BotDocument {
	return &BotDocument{
		ID:              d.ID,
		BotUUID:         d.BotUUID,
		FileName:        d.FileName,
		MimeType:        d.MimeType,
		Bytes:           d.Bytes,
		Sha256:          d.Sha256,
		StorageKey:      d.StorageKey,
		StorageProvider: d.StorageProvider,
		WordCount:       d.WordCount,
		ChunkCount:      d.ChunkCount,
		CreatedAt:       d.CreatedAt,
	}
}

func (e *BotDocument) EtoD() *document.Document {
	return &document.Document{
		ID:              e.ID,
		BotUUID:         e.BotUUID,
		FileName:        e.FileName,
		MimeType:        e.MimeType,
		Bytes:           e.Bytes,
		Sha256:          e.Sha256,
		StorageKey:      e.StorageKey,
		StorageProvider: e.StorageProvider,
		WordCount:       e.WordCount,
		ChunkCount:      e.ChunkCount,
		CreatedAt:       e.CreatedAt,
	}
}
