package requests

// CreateBotRequest is the owner's create payload.
type CreateBotRequest struct {
	Name           string `json:"name" binding:"required"`
	WelcomeMessage string `json:"welcomeMessage,omitempty"`
	SystemPrompt   string `json:"systemPrompt,omitempty"`
	Voice          string `json:"voice,omitempty"`
	RAGEnabled     bool   `json:"ragEnabled,omitempty"`
	Language       string `json:"language,omitempty"`
	Position       string `json:"position,omitempty"`
	Theme          string `json:"theme,omitempty"`
}

// SetAssistantRequest assigns an assistant reference by hand. An empty
// reference clears it.
type SetAssistantRequest struct {
	AssistantReference string `json:"assistantReference"`
}
