package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/document"
	"jan-server/services/voicebot-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

func setupDocumentTestRouter(handler *handlers.DocumentHandler) *gin.Engine {
	router := ownerRouter()
	router.POST("/v1/bots/:uuid/documents", handler.Upload)
	router.GET("/v1/bots/:uuid/documents", handler.List)
	router.GET("/v1/bots/:uuid/documents/:document_id/content", handler.Content)
	return router
}

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte(content))
	_ = mw.Close()
	return buf, mw.FormDataContentType()
}

func TestDocumentHandler_Upload(t *testing.T) {
	mockService := &MockDocumentService{
		UploadFunc: func(ctx context.Context, ownerID, botUUID string, params document.UploadParams) (*document.Document, error) {
			data, _ := io.ReadAll(params.Body)
			if string(data) != "hello knowledge" || params.FileName != "faq.txt" {
				t.Errorf("unexpected upload: %q %q", params.FileName, data)
			}
			return &document.Document{ID: "doc_1", BotUUID: botUUID, FileName: params.FileName, MimeType: "text/plain", Bytes: int64(len(data))}, nil
		},
	}
	router := setupDocumentTestRouter(handlers.NewDocumentHandler(mockService, zerolog.Nop()))

	body, contentType := multipartBody(t, "file", "faq.txt", "hello knowledge")
	req, _ := http.NewRequest(http.MethodPost, "/v1/bots/bot-1/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"id":"doc_1"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "storageKey") {
		t.Error("storage key must not be exposed")
	}
}

func TestDocumentHandler_UploadErrors(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		router := setupDocumentTestRouter(handlers.NewDocumentHandler(&MockDocumentService{}, zerolog.Nop()))
		body, contentType := multipartBody(t, "other", "faq.txt", "x")
		req, _ := http.NewRequest(http.MethodPost, "/v1/bots/bot-1/documents", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("too large", func(t *testing.T) {
		mockService := &MockDocumentService{
			UploadFunc: func(ctx context.Context, ownerID, botUUID string, params document.UploadParams) (*document.Document, error) {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeTooLarge, "file exceeds 1 bytes", nil, "test-413")
			},
		}
		router := setupDocumentTestRouter(handlers.NewDocumentHandler(mockService, zerolog.Nop()))
		body, contentType := multipartBody(t, "file", "big.txt", "xx")
		req, _ := http.NewRequest(http.MethodPost, "/v1/bots/bot-1/documents", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected status 413, got %d", w.Code)
		}
	})
}

func TestDocumentHandler_Content(t *testing.T) {
	mockService := &MockDocumentService{
		OpenFunc: func(ctx context.Context, ownerID, botUUID, id string) (*document.Document, io.ReadCloser, error) {
			if id != "doc_1" {
				t.Errorf("Expected doc_1, got %q", id)
			}
			content := "plain text body"
			doc := &document.Document{ID: id, FileName: "faq.txt", MimeType: "text/plain; charset=utf-8", Bytes: int64(len(content))}
			return doc, io.NopCloser(strings.NewReader(content)), nil
		},
	}
	router := setupDocumentTestRouter(handlers.NewDocumentHandler(mockService, zerolog.Nop()))

	req, _ := http.NewRequest(http.MethodGet, "/v1/bots/bot-1/documents/doc_1/content", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "plain text body" {
		t.Errorf("unexpected content %q", w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "faq.txt") {
		t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
}
