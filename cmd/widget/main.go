//go:build js && wasm

// Command widget is the WebAssembly build of the embeddable voice bot.
//
//	GOOS=js GOARCH=wasm go build -trimpath -ldflags="-s -w" -o web/widget/voicebot.wasm ./cmd/widget
//	gzip -9 -k web/widget/voicebot.wasm
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/widget"
	"jan-server/services/voicebot-api/internal/widget/jsdom"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()

	page := jsdom.NewPage()
	attrs := widget.ParseAttributes(page.ScriptAttribute)
	origin := widget.ResolveOrigin(attrs.Src, page.Origin())

	// The browser transport goes through fetch only when no dialer is configured.
	api := widget.NewClient(origin, &http.Transport{}, log)

	w := widget.New(page, attrs, api, jsdom.NewScripts(page), widget.WithLogger(log))
	log.Info().Str("bot_uuid", attrs.ChatbotUUID).Str("origin", w.Origin()).Msg("voice bot widget initializing")
	w.Boot(context.Background())

	select {}
}
