package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/utils/idgen"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

var allowedMimeTypes = []string{
	"application/json",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Config bounds uploads and the knowledge base built from them.
type Config struct {
	MaxBytes             int64
	KnowledgeBaseMaxRune int
}

// Service uploads, lists and serves documents and assembles knowledge bases.
type Service struct {
	repo    Repository
	storage Storage
	bots    bot.Repository
	cfg     Config
	now     func() time.Time
	log     zerolog.Logger
}

func NewService(repo Repository, storage Storage, bots bot.Repository, cfg Config, log zerolog.Logger) *Service {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	if cfg.KnowledgeBaseMaxRune <= 0 {
		cfg.KnowledgeBaseMaxRune = 20000
	}
	return &Service{
		repo:    repo,
		storage: storage,
		bots:    bots,
		cfg:     cfg,
		now:     time.Now,
		log:     log.With().Str("component", "document-service").Logger(),
	}
}

// Upload stores a file for the owner's bot. Re-uploading identical content returns
// the existing document.
func (s *Service) Upload(ctx context.Context, ownerID, botUUID string, params UploadParams) (*Document, error) {
	if err := s.authorize(ctx, ownerID, botUUID); err != nil {
		return nil, err
	}
	if params.Body == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "file is required", nil, "2a4c6e8f-0b1d-4f3a-8c5e-7a9b1c3d5e70")
	}
	if params.Size > s.cfg.MaxBytes {
		return nil, tooLarge(ctx, s.cfg.MaxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(params.Body, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "read upload", err, "4c6e8a0b-2d3f-4b5c-9e7a-9b1d3e5f7a92")
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, tooLarge(ctx, s.cfg.MaxBytes)
	}
	if len(data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "file is empty", nil, "6e8a0c2d-4f5b-4d7e-8a9c-1d3f5a7b9c14")
	}

	mt := mimetype.Detect(data)
	if !allowed(mt) {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "unsupported file type", nil, "8a0c2e4f-6b7d-4f9a-9c1e-3f5b7d9e1a36", map[string]any{"mime_type": mt.String()})
	}

	digest := sha256.Sum256(data)
	sum := hex.EncodeToString(digest[:])
	existing, err := s.repo.FindBySha256(ctx, botUUID, sum)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Debug().Str("bot_uuid", botUUID).Str("document_id", existing.ID).Msg("duplicate upload, returning existing document")
		return existing, nil
	}

	id := idgen.NewDocumentID()
	fileName := cleanFileName(params.FileName, mt.Extension())
	key := fmt.Sprintf("bots/%s/%s%s", botUUID, id, mt.Extension())
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), mt.String()); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "store document", err, "0c2e4a6b-8d9f-4b1c-8e3a-5b7d9f1a3c58")
	}

	doc := &Document{
		ID:              id,
		BotUUID:         botUUID,
		FileName:        fileName,
		MimeType:        mt.String(),
		Bytes:           int64(len(data)),
		Sha256:          sum,
		StorageKey:      key,
		StorageProvider: s.storage.Provider(),
		CreatedAt:       s.now().UTC(),
	}
	if doc.IsText() {
		doc.WordCount = len(strings.Fields(string(data)))
		doc.ChunkCount = (doc.WordCount + WordsPerChunk - 1) / WordsPerChunk
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create document")
	}

	s.log.Info().
		Str("bot_uuid", botUUID).
		Str("document_id", doc.ID).
		Str("mime_type", doc.MimeType).
		Int64("bytes", doc.Bytes).
		Msg("document uploaded")
	return doc, nil
}

// List returns the documents of the owner's bot.
func (s *Service) List(ctx context.Context, ownerID, botUUID string) ([]*Document, error) {
	if err := s.authorize(ctx, ownerID, botUUID); err != nil {
		return nil, err
	}
	return s.repo.ListByBot(ctx, botUUID)
}

// Open returns the document and a reader over its content. The caller closes the reader.
func (s *Service) Open(ctx context.Context, ownerID, botUUID, id string) (*Document, io.ReadCloser, error) {
	if err := s.authorize(ctx, ownerID, botUUID); err != nil {
		return nil, nil, err
	}
	doc, err := s.repo.Get(ctx, botUUID, id)
	if err != nil {
		return nil, nil, err
	}
	body, _, err := s.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "read document", err, "2e4a6c8d-0f1b-4d3e-9a5c-7d9f1b3c5e70")
	}
	return doc, body, nil
}

// KnowledgeBase concatenates the bot's text documents, oldest first, up to the
// configured rune budget.
func (s *Service) KnowledgeBase(ctx context.Context, botUUID string) (string, error) {
	docs, err := s.repo.ListByBot(ctx, botUUID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	remaining := s.cfg.KnowledgeBaseMaxRune
	for _, doc := range docs {
		if !doc.IsText() || remaining <= 0 {
			continue
		}
		text, err := s.readText(ctx, doc)
		if err != nil {
			s.log.Warn().Err(err).Str("document_id", doc.ID).Msg("skip unreadable document")
			continue
		}
		section := fmt.Sprintf("## %s\n%s\n\n", doc.FileName, strings.TrimSpace(text))
		if n := utf8.RuneCountInString(section); n > remaining {
			section = string([]rune(section)[:remaining])
		}
		b.WriteString(section)
		remaining -= utf8.RuneCountInString(section)
	}
	return strings.TrimSpace(b.String()), nil
}

func (s *Service) readText(ctx context.Context, doc *Document) (string, error) {
	body, _, err := s.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(io.LimitReader(body, s.cfg.MaxBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Service) authorize(ctx context.Context, ownerID, botUUID string) error {
	if err := bot.CheckUUID(ctx, botUUID); err != nil {
		return err
	}
	b, err := s.bots.GetByUUID(ctx, botUUID)
	if err != nil {
		return err
	}
	if b.OwnerID != ownerID {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "bot not found", nil, "4a6c8e0f-2b3d-4f5a-8c7e-9f1b3d5e7a92")
	}
	return nil
}

func allowed(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if isTextMime(m.String()) || mimetype.EqualsAny(m.String(), allowedMimeTypes...) {
			return true
		}
	}
	return false
}

func cleanFileName(name, ext string) string {
	name = filepath.Base(strings.TrimSpace(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" || name == "" {
		name = "document" + ext
	}
	if utf8.RuneCountInString(name) > 255 {
		name = string([]rune(name)[:255])
	}
	return name
}

func tooLarge(ctx context.Context, max int64) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeTooLarge, "file exceeds the upload limit", nil, "6c8e0a2b-4d5f-4b7c-9e9a-1b3d5f7a9c14", map[string]any{"max_bytes": max})
}
