// Package storage provides the document storage backends.
package storage

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/config"
)

// Backend is implemented by every storage provider.
type Backend interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Provider() string
	Health(ctx context.Context) error
}

// New selects the backend named by DOCUMENT_STORAGE_BACKEND.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Backend, error) {
	if cfg.IsS3Storage() {
		return NewS3Storage(ctx, cfg, log)
	}
	return NewLocalStorage(cfg, log)
}
