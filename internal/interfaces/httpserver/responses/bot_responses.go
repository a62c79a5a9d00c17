package responses

import (
	"time"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/domain/document"
	"jan-server/services/voicebot-api/internal/domain/navigation"
)

// BotResponse is the owner's view of a bot.
type BotResponse struct {
	UUID                  string     `json:"uuid"`
	Name                  string     `json:"name"`
	WelcomeMessage        string     `json:"welcomeMessage"`
	SystemPrompt          string     `json:"systemPrompt"`
	Voice                 string     `json:"voice"`
	RAGEnabled            bool       `json:"ragEnabled"`
	Status                string     `json:"status"`
	ActivationScheduledAt time.Time  `json:"activationScheduledAt"`
	ActivatedAt           *time.Time `json:"activatedAt,omitempty"`
	AssistantReference    *string    `json:"assistantReference,omitempty"`
	FailureReason         *string    `json:"failureReason,omitempty"`
	Language              string     `json:"language"`
	Position              string     `json:"position"`
	Theme                 string     `json:"theme"`
	EmbedCode             string     `json:"embedCode"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func NewBotResponse(b *bot.Bot) BotResponse {
	return BotResponse{
		UUID:                  b.UUID,
		Name:                  b.Name,
		WelcomeMessage:        b.WelcomeMessage,
		SystemPrompt:          b.SystemPrompt,
		Voice:                 string(b.Voice),
		RAGEnabled:            b.RAGEnabled,
		Status:                b.Status.String(),
		ActivationScheduledAt: b.ActivationScheduledAt.UTC(),
		ActivatedAt:           b.ActivatedAt,
		AssistantReference:    b.AssistantReference,
		FailureReason:         b.FailureReason,
		Language:              b.EmbedConfig.Language,
		Position:              string(b.EmbedConfig.Position),
		Theme:                 string(b.EmbedConfig.Theme),
		EmbedCode:             b.EmbedCode,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

func NewBotResponses(bots []*bot.Bot) []BotResponse {
	out := make([]BotResponse, 0, len(bots))
	for _, b := range bots {
		out = append(out, NewBotResponse(b))
	}
	return out
}

// EmbedResponse carries the snippet site owners paste into their pages.
type EmbedResponse struct {
	UUID      string `json:"uuid"`
	EmbedCode string `json:"embedCode"`
}

// NavigationEventResponse is one stored navigation report.
type NavigationEventResponse struct {
	ID        uint           `json:"id"`
	URL       string         `json:"url"`
	Command   string         `json:"command"`
	Success   bool           `json:"success"`
	Intent    string         `json:"intent"`
	Origin    string         `json:"origin,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func NewNavigationEventResponses(events []*navigation.Event) []NavigationEventResponse {
	out := make([]NavigationEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NavigationEventResponse{
			ID:        e.ID,
			URL:       e.URL,
			Command:   e.Command,
			Success:   e.Success,
			Intent:    e.Intent,
			Origin:    e.Origin,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// DocumentResponse omits the storage key.
type DocumentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	Bytes      int64     `json:"bytes"`
	Sha256     string    `json:"sha256"`
	Storage    string    `json:"storage"`
	WordCount  int       `json:"wordCount"`
	ChunkCount int       `json:"chunkCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewDocumentResponse(d *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID,
		FileName:   d.FileName,
		MimeType:   d.MimeType,
		Bytes:      d.Bytes,
		Sha256:     d.Sha256,
		Storage:    d.StorageProvider,
		WordCount:  d.WordCount,
		ChunkCount: d.ChunkCount,
		CreatedAt:  d.CreatedAt,
	}
}

func NewDocumentResponses(docs []*document.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewDocumentResponse(d))
	}
	return out
}
