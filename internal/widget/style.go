package widget

import (
	"fmt"
	"strings"

	"jan-server/services/voicebot-api/internal/domain/bot"
)

// DOM ids owned by the widget.
const (
	ContainerID = "vapi-voice-bot-container"
	WidgetID    = "vapi-bot-widget"
	StyleID     = "vapi-fixed-position-css"

	ZIndex = "2147483647"
	Offset = "20px"
)

// Property is one inline style declaration.
type Property struct {
	Name      string
	Value     string
	Important bool
}

var resetDeclarations = []string{
	"pointer-events: auto",
	"transform: none",
	"margin: 0",
	"outline: none",
	"box-sizing: border-box",
	"visibility: visible",
	"max-width: none",
	"max-height: none",
	"min-width: 0",
	"min-height: 0",
	"float: none",
	"clear: none",
	"overflow: visible",
}

// PositionCSS renders the stylesheet that pins the container regardless of host page rules.
func PositionCSS(pos bot.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%s {\n", ContainerID)
	fmt.Fprintf(&b, "  position: fixed !important;\n")
	fmt.Fprintf(&b, "  bottom: %s !important;\n", Offset)
	fmt.Fprintf(&b, "  %s: %s !important;\n", corner(pos), Offset)
	fmt.Fprintf(&b, "  top: auto !important;\n")
	fmt.Fprintf(&b, "  z-index: %s !important;\n", ZIndex)
	for _, decl := range resetDeclarations {
		fmt.Fprintf(&b, "  %s !important;\n", decl)
	}
	b.WriteString("}\n")
	return b.String()
}

// PinProperties are the inline declarations re-asserted on the container.
func PinProperties(pos bot.Position) []Property {
	near, far := corner(pos), "left"
	if near == "left" {
		far = "right"
	}
	return []Property{
		{Name: "position", Value: "fixed", Important: true},
		{Name: "bottom", Value: Offset, Important: true},
		{Name: "top", Value: "auto", Important: true},
		{Name: "z-index", Value: ZIndex, Important: true},
		{Name: near, Value: Offset, Important: true},
		{Name: far, Value: "auto", Important: true},
	}
}

// Pin applies the inline declarations to el.
func Pin(el Element, pos bot.Position) {
	for _, p := range PinProperties(pos) {
		el.SetStyleProperty(p.Name, p.Value, p.Important)
	}
}

// Guard pins el and re-pins it whenever a style or class change leaves it unfixed.
func Guard(el Element, pos bot.Position) {
	Pin(el, pos)
	el.Watch([]string{"style", "class"}, func() {
		if el.ComputedPosition() != "fixed" {
			Pin(el, pos)
		}
	})
}

func corner(pos bot.Position) string {
	if pos == bot.PositionLeft {
		return "left"
	}
	return "right"
}
