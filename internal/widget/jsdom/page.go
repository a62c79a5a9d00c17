//go:build js && wasm

// Package jsdom adapts the widget runtime to the browser through syscall/js.
package jsdom

import (
	"errors"
	"fmt"
	"html"
	"sync"
	"syscall/js"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/widget"
)

// ConfigGlobal is where the loader script stores the attributes of its <script> tag.
const ConfigGlobal = "__janVoicebotConfig"

// Page implements widget.Page over window and document.
type Page struct {
	window   js.Value
	document js.Value

	mu    sync.Mutex
	funcs []js.Func
}

func NewPage() *Page {
	return &Page{
		window:   js.Global(),
		document: js.Global().Get("document"),
	}
}

// ScriptAttribute returns the named attribute recorded by the loader.
func (p *Page) ScriptAttribute(name string) string {
	cfg := p.window.Get(ConfigGlobal)
	if cfg.IsUndefined() || cfg.IsNull() {
		return ""
	}
	v := cfg.Get(name)
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func (p *Page) Origin() string {
	return p.window.Get("location").Get("origin").String()
}

func (p *Page) AfterLoad(fn func()) {
	if p.document.Get("readyState").String() == "complete" {
		fn()
		return
	}
	var once sync.Once
	p.window.Call("addEventListener", "load", p.keep(func(js.Value, []js.Value) any {
		once.Do(fn)
		return nil
	}))
}

func (p *Page) InjectStyle(id, css string) {
	if !p.document.Call("getElementById", id).IsNull() {
		return
	}
	style := p.document.Call("createElement", "style")
	style.Set("id", id)
	style.Set("textContent", css)
	p.document.Get("head").Call("appendChild", style)
}

func (p *Page) Mount(mount widget.MountSpec) widget.Element {
	if old := p.document.Call("getElementById", widget.ContainerID); !old.IsNull() {
		old.Call("remove")
	}

	container := p.document.Call("createElement", "div")
	container.Set("id", widget.ContainerID)
	container.Set("innerHTML", markup(mount))
	p.document.Get("body").Call("appendChild", container)

	el := &Element{page: p, container: container, button: p.document.Call("getElementById", widget.WidgetID)}
	if tooltip := container.Call("querySelector", ".vapi-tooltip"); !tooltip.IsNull() {
		el.OnHover(func(in bool) {
			opacity := "0"
			if in {
				opacity = "1"
			}
			tooltip.Get("style").Set("opacity", opacity)
		})
	}
	return el
}

func (p *Page) Alert(message string) {
	p.window.Call("alert", message)
}

func (p *Page) OnMessage(fn func(widget.Message)) {
	p.window.Call("addEventListener", "message", p.keep(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		ev := args[0]
		data := ev.Get("data")
		if data.Type() != js.TypeObject || data.IsNull() {
			return nil
		}
		fn(widget.Message{
			Origin:  stringField(ev, "origin"),
			Type:    stringField(data, "type"),
			URL:     stringField(data, "url"),
			Command: stringField(data, "command"),
		})
		return nil
	}))
}

func (p *Page) Open(url string) error {
	if w := p.window.Call("open", url, "_blank"); w.IsNull() || w.IsUndefined() {
		return errors.New("popup blocked")
	}
	return nil
}

// keep retains callbacks for the page lifetime so they are never released while registered.
func (p *Page) keep(fn func(this js.Value, args []js.Value) any) js.Func {
	f := js.FuncOf(fn)
	p.mu.Lock()
	p.funcs = append(p.funcs, f)
	p.mu.Unlock()
	return f
}

// Element implements widget.Element for the mounted container.
type Element struct {
	page      *Page
	container js.Value
	button    js.Value
}

func (e *Element) SetStyleProperty(name, value string, important bool) {
	priority := ""
	if important {
		priority = "important"
	}
	e.container.Get("style").Call("setProperty", name, value, priority)
}

func (e *Element) ComputedPosition() string {
	return e.page.window.Call("getComputedStyle", e.container).Get("position").String()
}

func (e *Element) Watch(attrs []string, fn func()) {
	ctor := e.page.window.Get("MutationObserver")
	if ctor.IsUndefined() {
		return
	}
	observer := ctor.New(e.page.keep(func(js.Value, []js.Value) any {
		fn()
		return nil
	}))
	filter := make([]any, len(attrs))
	for i, a := range attrs {
		filter[i] = a
	}
	observer.Call("observe", e.container, map[string]any{
		"attributes":      true,
		"attributeFilter": filter,
	})
}

func (e *Element) OnClick(fn func()) {
	if e.button.IsNull() {
		return
	}
	e.button.Call("addEventListener", "click", e.page.keep(func(js.Value, []js.Value) any {
		fn()
		return nil
	}))
}

// OnHover reports pointer enter and leave on the button.
func (e *Element) OnHover(fn func(in bool)) {
	if e.button.IsNull() {
		return
	}
	e.button.Call("addEventListener", "mouseenter", e.page.keep(func(js.Value, []js.Value) any {
		fn(true)
		return nil
	}))
	e.button.Call("addEventListener", "mouseleave", e.page.keep(func(js.Value, []js.Value) any {
		fn(false)
		return nil
	}))
}

func (e *Element) MarkLive() {
	if e.button.IsNull() {
		return
	}
	e.button.Get("style").Set("background", "linear-gradient(135deg, #4CAF50 0%, #45a049 100%)")
	e.button.Set("innerHTML", icon(iconLive))
}

func stringField(v js.Value, name string) string {
	f := v.Get(name)
	if f.Type() != js.TypeString {
		return ""
	}
	return f.String()
}

const (
	iconReady   = "M12 1a11 11 0 0 0-11 11v6a1 1 0 0 0 1 1h2a1 1 0 0 0 1-1v-6a7 7 0 0 1 14 0v6a1 1 0 0 0 1 1h2a1 1 0 0 0 1-1v-6a11 11 0 0 0-11-11zm0 7a3 3 0 0 0-3 3v8a3 3 0 0 0 6 0v-8a3 3 0 0 0-3-3z"
	iconPending = "M12 2C6.48 2 2 6.48 2 12s4.48 10 10 10 10-4.48 10-10S17.52 2 12 2zm-2 15l-5-5 1.41-1.41L10 14.17l7.59-7.59L19 8l-9 9z"
	iconError   = "M12 2C6.48 2 2 6.48 2 12s4.48 10 10 10 10-4.48 10-10S17.52 2 12 2zm1 15h-2v-2h2v2zm0-4h-2V7h2v6z"
	iconLive    = "M12 14c1.66 0 2.99-1.34 2.99-3L15 5c0-1.66-1.34-3-3-3S9 3.34 9 5v6c0 1.66 1.34 3 3 3zm5.3-3c0 3-2.54 5.1-5.3 5.1S6.7 14 6.7 11H5c0 3.41 2.72 6.23 6 6.72V21h2v-3.28c3.28-.48 6-3.3 6-6.72h-1.7z"
)

func icon(path string) string {
	return `<svg width="24" height="24" fill="white" viewBox="0 0 24 24"><path d="` + path + `"/></svg>`
}

func markup(mount widget.MountSpec) string {
	background := "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"
	if mount.Theme == bot.ThemeDark {
		background = "linear-gradient(135deg, #2d3748 0%, #1a202c 100%)"
	}
	path, opacity := iconReady, "1"
	switch mount.State {
	case widget.StatePending:
		background, path, opacity = "linear-gradient(135deg, #ffa726 0%, #fb8c00 100%)", iconPending, "0.8"
	case widget.StateError:
		background, path, opacity = "linear-gradient(135deg, #ff5252 0%, #d32f2f 100%)", iconError, "0.7"
	}

	side := "right"
	if mount.Position == bot.PositionLeft {
		side = "left"
	}

	out := fmt.Sprintf(`<div id="%s" style="width:60px;height:60px;border-radius:50%%;background:%s;box-shadow:0 4px 12px rgba(0,0,0,0.2);cursor:pointer;display:flex;align-items:center;justify-content:center;transition:all 0.3s ease;border:3px solid #fff;opacity:%s;position:relative;z-index:1;">%s</div>`,
		widget.WidgetID, background, opacity, icon(path))
	if mount.Tooltip != "" {
		out += fmt.Sprintf(`<div class="vapi-tooltip" style="position:absolute;bottom:70px;%s:0;background:rgba(0,0,0,0.8);color:white;padding:8px 12px;border-radius:6px;font-size:12px;white-space:nowrap;opacity:0;transition:opacity 0.3s ease;pointer-events:none;">%s</div>`,
			side, html.EscapeString(mount.Tooltip))
	}
	return out
}
