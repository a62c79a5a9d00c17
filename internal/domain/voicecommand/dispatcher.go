package voicecommand

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// AnnouncementText is spoken before the new page opens.
	AnnouncementText = "Opening the requested website for you!"
	// OpenDelay gives the announcement time to be heard.
	OpenDelay = 1500 * time.Millisecond
)

var ErrInvalidURL = errors.New("invalid navigation url")

// Speaker is the voice session's speech output.
type Speaker interface {
	Say(text string) error
}

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(rawURL string) error
}

// Clock schedules the delayed open.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Outcome is the result of one navigation attempt.
type Outcome struct {
	URL     string
	Success bool
	Err     error
}

// Dispatcher executes navigation intents.
type Dispatcher struct {
	opener  Opener
	mu      sync.RWMutex
	speaker Speaker
	clock   Clock
	delay   time.Duration
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSpeaker announces navigation through the active voice session.
func WithSpeaker(s Speaker) DispatcherOption {
	return func(d *Dispatcher) { d.speaker = s }
}

// WithClock replaces the wall clock used for the open delay.
func WithClock(c Clock) DispatcherOption {
	return func(d *Dispatcher) {
		if c != nil {
			d.clock = c
		}
	}
}

// NewDispatcher creates a dispatcher that opens URLs through opener.
func NewDispatcher(opener Opener, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{opener: opener, clock: realClock{}, delay: OpenDelay}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetSpeaker swaps the speech output, e.g. once a session has started.
func (d *Dispatcher) SetSpeaker(s Speaker) {
	d.mu.Lock()
	d.speaker = s
	d.mu.Unlock()
}

// Normalize prefixes https:// when the scheme is missing and requires a dotted hostname.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !strings.Contains(u.Hostname(), ".") {
		return "", fmt.Errorf("%w: hostname %q", ErrInvalidURL, u.Hostname())
	}
	return raw, nil
}

// Dispatch validates the URL, announces it and opens it after the delay. It blocks
// until the open happens or ctx is done; callers on an event loop run it in a goroutine.
// Every failure is reported in the Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, rawURL string) (out Outcome) {
	out.URL = rawURL
	defer func() {
		if r := recover(); r != nil {
			out.Success = false
			out.Err = fmt.Errorf("navigation panicked: %v", r)
		}
	}()

	target, err := Normalize(rawURL)
	if err != nil {
		out.Err = err
		return out
	}
	out.URL = target

	d.mu.RLock()
	speaker := d.speaker
	d.mu.RUnlock()
	if speaker != nil {
		// Best effort; a failed announcement does not stop navigation.
		_ = speaker.Say(AnnouncementText)
	}

	select {
	case <-ctx.Done():
		out.Err = ctx.Err()
		return out
	case <-d.clock.After(d.delay):
	}

	if d.opener == nil {
		out.Err = errors.New("no opener configured")
		return out
	}
	if err := d.opener.Open(target); err != nil {
		out.Err = err
		return out
	}
	out.Success = true
	return out
}

// Handle parses a transcript and dispatches the intent. ok is false when the
// transcript held no navigation request.
func (d *Dispatcher) Handle(ctx context.Context, p *Parser, transcript string) (Outcome, Intent, bool) {
	intent, ok := p.Parse(transcript)
	if !ok {
		return Outcome{}, intent, false
	}
	return d.Dispatch(ctx, intent.URL), intent, true
}
