package bot

import (
	"fmt"
	"html"
	"strings"
)

// WidgetScriptPath is where the HTTP server serves the widget loader.
const WidgetScriptPath = "/widget/voicebot.js"

// BuildEmbedCode renders the script tag a site owner pastes into their page.
func BuildEmbedCode(baseURL, botUUID string, cfg EmbedConfig) string {
	cfg = cfg.Normalize()
	src := strings.TrimRight(baseURL, "/") + WidgetScriptPath
	return fmt.Sprintf(
		`<script defer src="%s" data-chatbot-uuid="%s" data-language="%s" data-position="%s" data-theme="%s"></script>`,
		html.EscapeString(src),
		html.EscapeString(botUUID),
		html.EscapeString(cfg.Language),
		html.EscapeString(string(cfg.Position)),
		html.EscapeString(string(cfg.Theme)),
	)
}
