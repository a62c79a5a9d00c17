package widget

import (
	"net/url"
	"strings"

	"jan-server/services/voicebot-api/internal/domain/bot"
)

// Script tag attributes read by the loader.
const (
	AttrChatbotUUID = "data-chatbot-uuid"
	AttrAssistantID = "data-vapi-assistant-id"
	AttrLanguage    = "data-language"
	AttrPosition    = "data-position"
	AttrTheme       = "data-theme"
	AttrSrc         = "src"
)

// Attributes is the configuration carried by the embedding script tag.
type Attributes struct {
	ChatbotUUID string
	AssistantID string
	Language    string
	Position    bot.Position
	Theme       bot.Theme
	Src         string
}

// ParseAttributes reads the script tag through get, which returns "" for a
// missing attribute. Unknown position and theme values fall back to defaults.
func ParseAttributes(get func(name string) string) Attributes {
	cfg := bot.EmbedConfig{
		Language: get(AttrLanguage),
		Position: bot.Position(strings.ToLower(strings.TrimSpace(get(AttrPosition)))),
		Theme:    bot.Theme(strings.ToLower(strings.TrimSpace(get(AttrTheme)))),
	}.Normalize()

	return Attributes{
		ChatbotUUID: strings.TrimSpace(get(AttrChatbotUUID)),
		AssistantID: strings.TrimSpace(get(AttrAssistantID)),
		Language:    cfg.Language,
		Position:    cfg.Position,
		Theme:       cfg.Theme,
		Src:         strings.TrimSpace(get(AttrSrc)),
	}
}

// ResolveOrigin returns the origin serving the widget script. Absolute http(s)
// sources give their own origin, relative ones are resolved against the page,
// and anything unusable falls back to the page origin.
func ResolveOrigin(src, pageOrigin string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return pageOrigin
	}

	ref, err := url.Parse(src)
	if err != nil {
		return pageOrigin
	}
	if !ref.IsAbs() {
		base, err := url.Parse(pageOrigin)
		if err != nil || base.Host == "" {
			return pageOrigin
		}
		ref = base.ResolveReference(ref)
	}

	if ref.Scheme != "http" && ref.Scheme != "https" {
		return pageOrigin
	}
	if ref.Host == "" {
		return pageOrigin
	}
	return ref.Scheme + "://" + ref.Host
}
