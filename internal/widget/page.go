package widget

import (
	"context"

	"jan-server/services/voicebot-api/internal/domain/bot"
)

// Page is the host document as seen by the widget. The browser adapter
// implements it over the DOM; tests use a fake.
type Page interface {
	// Origin is the host page's window.location.origin.
	Origin() string
	// AfterLoad runs fn once the page load event has fired.
	AfterLoad(fn func())
	// InjectStyle appends a <style> element unless one with id exists.
	InjectStyle(id, css string)
	// Mount replaces any element with ContainerID by a new widget container.
	Mount(mount MountSpec) Element
	Alert(message string)
	// OnMessage subscribes to window message events.
	OnMessage(fn func(Message))
	// Open loads url in a new browsing context.
	Open(url string) error
}

// Element is a mounted widget container.
type Element interface {
	SetStyleProperty(name, value string, important bool)
	ComputedPosition() string
	// Watch calls fn whenever one of attrs changes.
	Watch(attrs []string, fn func())
	OnClick(fn func())
	// MarkLive switches the button to the in-call look.
	MarkLive()
}

// MountSpec describes the container to render.
type MountSpec struct {
	State    State
	Position bot.Position
	Theme    bot.Theme
	Tooltip  string
}

// Message is a cross-frame window message.
type Message struct {
	Origin  string
	Type    string
	URL     string
	Command string
}

// ScriptLoader performs one raw SDK load attempt.
type ScriptLoader interface {
	LoadSDK(ctx context.Context) (VoiceSDK, error)
}

// VoiceSDK starts voice sessions.
type VoiceSDK interface {
	Run(publicKey, assistantID string) (Session, error)
}

// Session is a running voice call.
type Session interface {
	Say(text string) error
	OnCallStart(fn func())
	OnMessage(fn func(SessionMessage))
}

// SessionMessage is a message event emitted by a voice session.
type SessionMessage struct {
	Type              string
	Role              string
	Transcript        string
	TranscriptPartial string
	TranscriptType    string
}

// UserTranscript returns the user's words when m is a final user transcript.
func (m SessionMessage) UserTranscript() (string, bool) {
	if m.Type != "transcript" || m.Role != "user" {
		return "", false
	}
	if m.TranscriptType != "" && m.TranscriptType != "final" {
		return "", false
	}
	text := m.Transcript
	if text == "" {
		text = m.TranscriptPartial
	}
	return text, text != ""
}
