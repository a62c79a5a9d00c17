package handlers_test

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/config"
	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/domain/document"
	"jan-server/services/voicebot-api/internal/domain/navigation"
	"jan-server/services/voicebot-api/internal/infrastructure/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockBotService is a mock implementation of bot.Service for testing.
type MockBotService struct {
	CreateFunc                func(ctx context.Context, params bot.CreateParams) (*bot.Bot, error)
	GetFunc                   func(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error)
	ListFunc                  func(ctx context.Context, ownerID string) ([]*bot.Bot, error)
	DeleteFunc                func(ctx context.Context, ownerID, botUUID string) error
	ActivateFunc              func(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error)
	DeactivateFunc            func(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error)
	SetAssistantReferenceFunc func(ctx context.Context, ownerID, botUUID, ref string) (*bot.Bot, error)
	ResolveStatusFunc         func(ctx context.Context, botUUID string) (*bot.StatusResolution, error)
	ActivateDueFunc           func(ctx context.Context, limit int) (int, error)
	ExecuteActivationFunc     func(ctx context.Context, botUUID string) (bot.ActivationResult, error)
}

func (m *MockBotService) Create(ctx context.Context, params bot.CreateParams) (*bot.Bot, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockBotService) Get(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID, botUUID)
	}
	return nil, nil
}

func (m *MockBotService) List(ctx context.Context, ownerID string) ([]*bot.Bot, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockBotService) Delete(ctx context.Context, ownerID, botUUID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, botUUID)
	}
	return nil
}

func (m *MockBotService) Activate(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error) {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, ownerID, botUUID)
	}
	return nil, nil
}

func (m *MockBotService) Deactivate(ctx context.Context, ownerID, botUUID string) (*bot.Bot, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, ownerID, botUUID)
	}
	return nil, nil
}

func (m *MockBotService) SetAssistantReference(ctx context.Context, ownerID, botUUID, ref string) (*bot.Bot, error) {
	if m.SetAssistantReferenceFunc != nil {
		return m.SetAssistantReferenceFunc(ctx, ownerID, botUUID, ref)
	}
	return nil, nil
}

func (m *MockBotService) ResolveStatus(ctx context.Context, botUUID string) (*bot.StatusResolution, error) {
	if m.ResolveStatusFunc != nil {
		return m.ResolveStatusFunc(ctx, botUUID)
	}
	return nil, nil
}

func (m *MockBotService) ActivateDue(ctx context.Context, limit int) (int, error) {
	if m.ActivateDueFunc != nil {
		return m.ActivateDueFunc(ctx, limit)
	}
	return 0, nil
}

func (m *MockBotService) ExecuteActivation(ctx context.Context, botUUID string) (bot.ActivationResult, error) {
	if m.ExecuteActivationFunc != nil {
		return m.ExecuteActivationFunc(ctx, botUUID)
	}
	return bot.ActivationResult{}, nil
}

// MockNavigationService is a mock of the navigation service.
type MockNavigationService struct {
	RecordFunc func(ctx context.Context, params navigation.RecordParams) (*navigation.Event, error)
	ListFunc   func(ctx context.Context, ownerID, botUUID string, limit int) ([]*navigation.Event, error)
}

func (m *MockNavigationService) Record(ctx context.Context, params navigation.RecordParams) (*navigation.Event, error) {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, params)
	}
	return &navigation.Event{}, nil
}

func (m *MockNavigationService) List(ctx context.Context, ownerID, botUUID string, limit int) ([]*navigation.Event, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, botUUID, limit)
	}
	return nil, nil
}

// MockDocumentService is a mock of the document service.
type MockDocumentService struct {
	UploadFunc func(ctx context.Context, ownerID, botUUID string, params document.UploadParams) (*document.Document, error)
	ListFunc   func(ctx context.Context, ownerID, botUUID string) ([]*document.Document, error)
	OpenFunc   func(ctx context.Context, ownerID, botUUID, id string) (*document.Document, io.ReadCloser, error)
}

func (m *MockDocumentService) Upload(ctx context.Context, ownerID, botUUID string, params document.UploadParams) (*document.Document, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, ownerID, botUUID, params)
	}
	return nil, nil
}

func (m *MockDocumentService) List(ctx context.Context, ownerID, botUUID string) ([]*document.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, botUUID)
	}
	return nil, nil
}

func (m *MockDocumentService) Open(ctx context.Context, ownerID, botUUID, id string) (*document.Document, io.ReadCloser, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, ownerID, botUUID, id)
	}
	return nil, nil, nil
}

// ownerRouter installs the auth middleware with auth disabled, so the owner
// comes from the X-Owner-Id header.
func ownerRouter() *gin.Engine {
	validator, _ := auth.NewValidator(context.Background(), &config.Config{}, zerolog.Nop())
	router := gin.New()
	router.Use(validator.Middleware())
	return router
}
