// Package document manages the reference files a bot's assistant answers from.
package document

import (
	"context"
	"io"
	"strings"
	"time"
)

// WordsPerChunk is the size used to report how a document would be split for retrieval.
const WordsPerChunk = 200

// Document is an uploaded knowledge file.
type Document struct {
	ID              string
	BotUUID         string
	FileName        string
	MimeType        string
	Bytes           int64
	Sha256          string
	StorageKey      string
	StorageProvider string
	WordCount       int
	ChunkCount      int
	CreatedAt       time.Time
}

// IsText reports whether the document contributes to the knowledge base.
func (d *Document) IsText() bool {
	return isTextMime(d.MimeType)
}

func isTextMime(mime string) bool {
	base := strings.TrimSpace(strings.SplitN(mime, ";", 2)[0])
	return strings.HasPrefix(base, "text/") || base == "application/json"
}

// Storage stores document bytes.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Provider() string
}

// Repository persists document metadata.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	Get(ctx context.Context, botUUID, id string) (*Document, error)
	ListByBot(ctx context.Context, botUUID string) ([]*Document, error)
	// FindBySha256 returns nil without error when the bot has no such document.
	FindBySha256(ctx context.Context, botUUID, sum string) (*Document, error)
}

// UploadParams describes one multipart upload.
type UploadParams struct {
	FileName string
	Size     int64
	Body     io.Reader
}
