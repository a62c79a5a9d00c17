package document_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/domain/document"
	botrepo "jan-server/services/voicebot-api/internal/infrastructure/repository/bot"
	docrepo "jan-server/services/voicebot-api/internal/infrastructure/repository/document"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

const botUUID = "9d8c7b6a-2222-4b3c-8d4e-5f6a7b8c9d0e"

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
}

func (m *memoryStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	m.uploads++
	return nil
}

func (m *memoryStorage) Download(_ context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, "", errors.New("missing")
	}
	return io.NopCloser(bytes.NewReader(data)), "", nil
}

func (m *memoryStorage) Provider() string { return "memory" }

func newService(t *testing.T, cfg document.Config) (*document.Service, *memoryStorage) {
	t.Helper()
	bots := botrepo.NewInMemoryRepository()
	if err := bots.Create(context.Background(), &bot.Bot{
		UUID:                  botUUID,
		OwnerID:               "owner-1",
		Name:                  "Docs",
		Status:                bot.StatusPending,
		ActivationScheduledAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}
	store := &memoryStorage{}
	return document.NewService(docrepo.NewInMemoryRepository(), store, bots, cfg, zerolog.Nop()), store
}

func upload(svc *document.Service, name, content string) (*document.Document, error) {
	return svc.Upload(context.Background(), "owner-1", botUUID, document.UploadParams{
		FileName: name,
		Size:     int64(len(content)),
		Body:     strings.NewReader(content),
	})
}

func TestUpload_TextDocument(t *testing.T) {
	svc, store := newService(t, document.Config{})

	content := strings.Repeat("word ", 450)
	doc, err := upload(svc, "faq.txt", content)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(doc.ID, "doc_") {
		t.Errorf("id = %s", doc.ID)
	}
	if !strings.HasPrefix(doc.MimeType, "text/plain") {
		t.Errorf("mime = %s", doc.MimeType)
	}
	if doc.WordCount != 450 || doc.ChunkCount != 3 {
		t.Errorf("words = %d chunks = %d, want 450 and 3", doc.WordCount, doc.ChunkCount)
	}
	if doc.StorageProvider != "memory" || store.uploads != 1 {
		t.Errorf("provider = %s uploads = %d", doc.StorageProvider, store.uploads)
	}
	if len(doc.Sha256) != 64 {
		t.Errorf("sha256 = %q", doc.Sha256)
	}
}

func TestUpload_DeduplicatesByChecksum(t *testing.T) {
	svc, store := newService(t, document.Config{})

	first, err := upload(svc, "a.txt", "same content")
	if err != nil {
		t.Fatal(err)
	}
	second, err := upload(svc, "b.txt", "same content")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("duplicate upload created %s, want %s", second.ID, first.ID)
	}
	if store.uploads != 1 {
		t.Errorf("uploads = %d, want 1", store.uploads)
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		content string
		want    platformerrors.ErrorType
	}{
		{"too large", "owner-1", strings.Repeat("x", 64), platformerrors.ErrorTypeTooLarge},
		{"empty", "owner-1", "", platformerrors.ErrorTypeValidation},
		{"binary", "owner-1", "\x7fELF\x02\x01\x01\x00\x00\x00", platformerrors.ErrorTypeValidation},
		{"foreign owner", "intruder", "hello", platformerrors.ErrorTypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, document.Config{MaxBytes: 32})
			_, err := svc.Upload(context.Background(), tt.owner, botUUID, document.UploadParams{
				FileName: "f",
				Body:     strings.NewReader(tt.content),
			})
			if !platformerrors.IsErrorType(err, tt.want) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	svc, _ := newService(t, document.Config{})
	doc, err := upload(svc, "notes.md", "# Notes\nhello")
	if err != nil {
		t.Fatal(err)
	}

	got, body, err := svc.Open(context.Background(), "owner-1", botUUID, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "# Notes\nhello" || got.FileName != "notes.md" {
		t.Errorf("got %q from %s", data, got.FileName)
	}

	if _, _, err := svc.Open(context.Background(), "owner-1", botUUID, "doc_missing"); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("missing document err = %v", err)
	}
}

func TestKnowledgeBase(t *testing.T) {
	svc, _ := newService(t, document.Config{KnowledgeBaseMaxRune: 40})
	if _, err := upload(svc, "hours.txt", "Open 9 to 5"); err != nil {
		t.Fatal(err)
	}
	if _, err := upload(svc, "long.txt", strings.Repeat("z", 100)); err != nil {
		t.Fatal(err)
	}

	kb, err := svc.KnowledgeBase(context.Background(), botUUID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(kb, "## hours.txt\nOpen 9 to 5") {
		t.Errorf("knowledge base = %q", kb)
	}
	if n := len([]rune(kb)); n > 40 {
		t.Errorf("knowledge base has %d runes, limit 40", n)
	}
}

func TestList(t *testing.T) {
	svc, _ := newService(t, document.Config{})
	if _, err := upload(svc, "a.txt", "alpha"); err != nil {
		t.Fatal(err)
	}
	docs, err := svc.List(context.Background(), "owner-1", botUUID)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("len = %d, want 1", len(docs))
	}
}
