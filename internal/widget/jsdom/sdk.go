//go:build js && wasm

package jsdom

import (
	"context"
	"errors"
	"syscall/js"
	"time"

	"jan-server/services/voicebot-api/internal/widget"
)

const sdkSettleDelay = 100 * time.Millisecond

// Scripts injects the voice SDK script tag. Each LoadSDK call is one attempt.
type Scripts struct {
	page *Page
	src  string
}

func NewScripts(page *Page) *Scripts {
	return &Scripts{page: page, src: widget.SDKURL}
}

func (s *Scripts) LoadSDK(ctx context.Context) (widget.VoiceSDK, error) {
	if sdk := s.page.window.Get("vapiSDK"); sdk.Truthy() {
		return &SDK{page: s.page, value: sdk}, nil
	}

	done := make(chan error, 1)
	script := s.page.document.Call("createElement", "script")
	script.Set("src", s.src)
	onload := js.FuncOf(func(js.Value, []js.Value) any {
		done <- nil
		return nil
	})
	onerror := js.FuncOf(func(js.Value, []js.Value) any {
		done <- errors.New("voice sdk script failed to load")
		return nil
	})
	defer onload.Release()
	defer onerror.Release()
	script.Set("onload", onload)
	script.Set("onerror", onerror)
	s.page.document.Get("head").Call("appendChild", script)

	select {
	case err := <-done:
		if err != nil {
			script.Call("remove")
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	time.Sleep(sdkSettleDelay)
	sdk := s.page.window.Get("vapiSDK")
	if !sdk.Truthy() {
		return nil, errors.New("voice sdk not available after loading")
	}
	return &SDK{page: s.page, value: sdk}, nil
}

// SDK wraps window.vapiSDK.
type SDK struct {
	page  *Page
	value js.Value
}

func (s *SDK) Run(publicKey, assistantID string) (session widget.Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("voice sdk run failed")
		}
	}()
	instance := s.value.Call("run", map[string]any{
		"apiKey":    publicKey,
		"assistant": assistantID,
		"config":    map[string]any{},
	})
	if !instance.Truthy() {
		return nil, errors.New("voice sdk returned no instance")
	}
	return &Session{page: s.page, value: instance}, nil
}

// Session wraps a running voice SDK instance.
type Session struct {
	page  *Page
	value js.Value
}

func (s *Session) Say(text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("voice sdk say failed")
		}
	}()
	s.value.Call("say", text, false)
	return nil
}

func (s *Session) OnCallStart(fn func()) {
	s.value.Call("on", "call-start", s.page.keep(func(js.Value, []js.Value) any {
		fn()
		return nil
	}))
}

func (s *Session) OnMessage(fn func(widget.SessionMessage)) {
	s.value.Call("on", "message", s.page.keep(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 || args[0].Type() != js.TypeObject {
			return nil
		}
		m := args[0]
		fn(widget.SessionMessage{
			Type:              stringField(m, "type"),
			Role:              stringField(m, "role"),
			Transcript:        stringField(m, "transcript"),
			TranscriptPartial: stringField(m, "transcriptPartial"),
			TranscriptType:    stringField(m, "transcriptType"),
		})
		return nil
	}))
}
