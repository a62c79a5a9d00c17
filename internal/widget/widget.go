// Package widget is the embeddable voice bot runtime. It is browser agnostic:
// the DOM, the voice SDK and the network are reached through small interfaces
// so the same code runs in WebAssembly and in tests.
package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/navigation"
	"jan-server/services/voicebot-api/internal/domain/voicecommand"
)

const (
	WelcomeMessage = "Hello! I'm your voice assistant. I can help you navigate websites, search the internet, or answer questions. Try saying 'Open Google', 'Search for cats', or 'Go to YouTube'!"
	WelcomeDelay   = time.Second

	PendingTooltip     = "Voice bot activating within 24 hours"
	PendingAlert       = "Your voice bot is being activated and will be ready within 24 hours. Thank you for your patience!"
	NotConfiguredAlert = "Voice bot is not properly configured. Please contact support."
	StartFailedAlert   = "Failed to start voice bot. Please try again."

	reportTimeout = 10 * time.Second
)

// ErrNotConfigured means the session lacks an assistant id or public key.
var ErrNotConfigured = errors.New("voice bot is not configured")

// Option customises a Widget.
type Option func(*Widget)

func WithLogger(log zerolog.Logger) Option {
	return func(w *Widget) { w.log = log }
}

// WithClock replaces the wall clock used for delayed speech and navigation.
func WithClock(c voicecommand.Clock) Option {
	return func(w *Widget) {
		if c != nil {
			w.clock = c
		}
	}
}

// Widget is one embedded voice bot instance.
type Widget struct {
	page       Page
	attrs      Attributes
	origin     string
	api        API
	loader     *SDKLoader
	parser     *voicecommand.Parser
	dispatcher *voicecommand.Dispatcher
	clock      voicecommand.Clock
	log        zerolog.Logger

	resolveOnce sync.Once
	resolution  Resolution
	listenOnce  sync.Once

	mu       sync.Mutex
	element  Element
	starting bool
	session  Session
	config   *Config
}

// New creates a widget for the script tag described by attrs.
func New(page Page, attrs Attributes, api API, scripts ScriptLoader, opts ...Option) *Widget {
	w := &Widget{
		page:   page,
		attrs:  attrs,
		origin: ResolveOrigin(attrs.Src, page.Origin()),
		api:    api,
		loader: NewSDKLoader(scripts),
		parser: voicecommand.NewParser(nil),
		clock:  systemClock{},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With().Str("component", "voicebot-widget").Str("bot_uuid", attrs.ChatbotUUID).Logger()
	w.dispatcher = voicecommand.NewDispatcher(page, voicecommand.WithClock(w.clock))
	return w
}

// Origin is the resolved origin of the voicebot service.
func (w *Widget) Origin() string {
	return w.origin
}

// Boot renders the widget once the host page has loaded.
func (w *Widget) Boot(ctx context.Context) {
	w.page.AfterLoad(func() {
		go func() {
			w.Render(ctx, w.Resolve(ctx))
		}()
	})
}

// Resolve computes the resolution once; later calls return the same value.
func (w *Widget) Resolve(ctx context.Context) Resolution {
	w.resolveOnce.Do(func() {
		w.resolution = Resolve(ctx, w.attrs, w.api)
		w.log.Debug().Str("state", string(w.resolution.State)).Msg("widget resolved")
	})
	return w.resolution
}

// Render mounts the container for res, replacing any earlier one.
func (w *Widget) Render(ctx context.Context, res Resolution) {
	w.page.InjectStyle(StyleID, PositionCSS(w.attrs.Position))

	mount := MountSpec{State: res.State, Position: w.attrs.Position, Theme: w.attrs.Theme}
	switch res.State {
	case StatePending:
		mount.Tooltip = PendingTooltip
	case StateError:
		mount.Tooltip = res.Message
	}

	el := w.page.Mount(mount)
	Guard(el, w.attrs.Position)
	el.OnClick(func() {
		go w.Click(ctx)
	})

	w.mu.Lock()
	w.element = el
	w.mu.Unlock()

	w.listenOnce.Do(func() {
		w.page.OnMessage(func(m Message) {
			go w.HandleMessage(ctx, m)
		})
	})
}

// Click reacts to a press on the widget button.
func (w *Widget) Click(ctx context.Context) {
	res := w.Resolve(ctx)
	switch res.State {
	case StateReady:
		err := w.StartSession(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ErrNotConfigured):
			w.page.Alert(NotConfiguredAlert)
		default:
			w.log.Error().Err(err).Msg("start voice session")
			w.page.Alert(StartFailedAlert)
		}
	case StatePending:
		w.page.Alert(PendingAlert)
	default:
		w.page.Alert("Voice bot error: " + res.Message + ". Please contact the site administrator.")
	}
}

// StartSession starts the voice call. Calls made while a start is in flight
// or after a session exists return nil without doing anything.
func (w *Widget) StartSession(ctx context.Context) error {
	assistantID := w.Resolve(ctx).AssistantID
	if assistantID == "" {
		return ErrNotConfigured
	}

	w.mu.Lock()
	if w.session != nil || w.starting {
		w.mu.Unlock()
		return nil
	}
	w.starting = true
	w.mu.Unlock()

	sess, err := w.start(ctx, assistantID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.starting = false
	if err != nil {
		return err
	}
	w.session = sess
	if w.element != nil {
		w.element.MarkLive()
	}
	return nil
}

func (w *Widget) start(ctx context.Context, assistantID string) (Session, error) {
	sdk, err := w.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := w.publicConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.VapiPublicKey == "" {
		return nil, ErrNotConfigured
	}

	sess, err := sdk.Run(cfg.VapiPublicKey, assistantID)
	if err != nil {
		return nil, err
	}

	w.dispatcher.SetSpeaker(sess)
	sess.OnCallStart(func() {
		go func() {
			<-w.clock.After(WelcomeDelay)
			if err := sess.Say(WelcomeMessage); err != nil {
				w.log.Warn().Err(err).Msg("welcome message")
			}
		}()
	})
	sess.OnMessage(func(m SessionMessage) {
		if transcript, ok := m.UserTranscript(); ok {
			go w.HandleTranscript(ctx, transcript)
		}
	})
	w.log.Info().Str("assistant_id", assistantID).Msg("voice session started")
	return sess, nil
}

// publicConfig fetches the widget config once; failures are retried on the next call.
func (w *Widget) publicConfig(ctx context.Context) (*Config, error) {
	w.mu.Lock()
	cached := w.config
	w.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	cfg, err := w.api.Config(ctx)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.config = cfg
	if len(cfg.Shortcuts) > 0 {
		w.parser = voicecommand.NewParser(cfg.Shortcuts)
	}
	w.mu.Unlock()
	return cfg, nil
}

// HandleTranscript dispatches a navigation found in a user transcript and reports it.
func (w *Widget) HandleTranscript(ctx context.Context, transcript string) bool {
	w.mu.Lock()
	parser := w.parser
	w.mu.Unlock()

	out, _, ok := w.dispatcher.Handle(ctx, parser, transcript)
	if !ok {
		return false
	}
	w.report(ctx, NavigationReport{URL: out.URL, Command: transcript, Success: out.Success, BotUUID: w.attrs.ChatbotUUID})
	return true
}

// HandleMessage processes a cross-frame navigation request. Messages from any
// origin other than the service origin are ignored.
func (w *Widget) HandleMessage(ctx context.Context, m Message) bool {
	if m.Origin != w.origin {
		return false
	}
	if m.Type != "navigate" {
		return false
	}

	out := w.dispatcher.Dispatch(ctx, m.URL)
	if out.Err != nil {
		w.log.Warn().Err(out.Err).Str("url", m.URL).Msg("navigation failed")
	}
	command := m.Command
	if command == "" {
		command = navigation.CommandNavigate
	}
	w.report(ctx, NavigationReport{URL: m.URL, Command: command, Success: out.Success, BotUUID: w.attrs.ChatbotUUID})
	return true
}

func (w *Widget) report(ctx context.Context, r NavigationReport) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()
	if err := w.api.ReportNavigation(ctx, r); err != nil {
		w.log.Warn().Err(err).Msg("failed to log navigation")
	}
}

type systemClock struct{}

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
