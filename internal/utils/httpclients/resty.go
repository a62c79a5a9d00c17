package httpclients

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

type HTTPClientStartsAt struct{}

// NewClient returns a resty client that logs every exchange at debug level.
// Bodies are not logged because they carry prompts and keys.
func NewClient(clientName string, log zerolog.Logger) *resty.Client {
	client := newLoggingClient(clientName, log)
	client.SetHeader("User-Agent", "voicebot-api/"+clientName)
	return client
}

// NewBrowserClient returns a client for code running inside a browser. Only
// headers a cross-origin fetch can send without extra preflight allowances
// leave the client, so resty's default User-Agent is removed once the raw
// request exists.
func NewBrowserClient(clientName string, log zerolog.Logger) *resty.Client {
	client := newLoggingClient(clientName, log)
	client.SetRequestMiddlewares(
		stampStart,
		resty.PrepareRequestMiddleware,
		func(c *resty.Client, r *resty.Request) error {
			if r.RawRequest != nil {
				r.RawRequest.Header.Del("User-Agent")
			}
			return nil
		},
	)
	return client
}

func stampStart(c *resty.Client, r *resty.Request) error {
	r.SetContext(context.WithValue(r.Context(), HTTPClientStartsAt{}, time.Now()))
	return nil
}

func newLoggingClient(clientName string, log zerolog.Logger) *resty.Client {
	client := resty.New()
	client.AddRequestMiddleware(stampStart)
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		ctx := r.Request.Context()
		startTime, _ := ctx.Value(HTTPClientStartsAt{}).(time.Time)
		requestID, _ := ctx.Value(platformerrors.RequestIDKey{}).(string)

		event := log.Debug().
			Str("request_id", requestID).
			Str("client", clientName).
			Int("status", r.StatusCode()).
			Dur("latency", time.Since(startTime))
		if raw := r.Request.RawRequest; raw != nil {
			event = event.Str("method", raw.Method).Str("path", raw.URL.Path)
		}
		event.Msg("HTTP client request")
		return nil
	})
	return client
}
