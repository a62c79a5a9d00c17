package widget

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

type fakeElement struct {
	mu       sync.Mutex
	props    map[string]string
	position string
	watchers []func()
	clicks   []func()
	live     bool
}

func newFakeElement() *fakeElement {
	return &fakeElement{props: map[string]string{}}
}

func (e *fakeElement) SetStyleProperty(name, value string, important bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.props[name] = value
	if name == "position" {
		e.position = value
	}
}

func (e *fakeElement) ComputedPosition() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *fakeElement) Watch(attrs []string, fn func()) {
	e.mu.Lock()
	e.watchers = append(e.watchers, fn)
	e.mu.Unlock()
}

func (e *fakeElement) OnClick(fn func()) {
	e.mu.Lock()
	e.clicks = append(e.clicks, fn)
	e.mu.Unlock()
}

func (e *fakeElement) MarkLive() {
	e.mu.Lock()
	e.live = true
	e.mu.Unlock()
}

// hostRestyle simulates a host page stylesheet overriding the container.
func (e *fakeElement) hostRestyle(position string) {
	e.mu.Lock()
	e.position = position
	watchers := append([]func(){}, e.watchers...)
	e.mu.Unlock()
	for _, fn := range watchers {
		fn()
	}
}

type fakePage struct {
	origin string

	mu       sync.Mutex
	loadFns  []func()
	styles   map[string]string
	mounted  []*fakeElement
	mounts   []MountSpec
	alerts   []string
	opened   []string
	listener func(Message)
}

func newFakePage(origin string) *fakePage {
	return &fakePage{origin: origin, styles: map[string]string{}}
}

func (p *fakePage) Origin() string { return p.origin }

func (p *fakePage) AfterLoad(fn func()) {
	p.mu.Lock()
	p.loadFns = append(p.loadFns, fn)
	p.mu.Unlock()
}

func (p *fakePage) fireLoad() {
	p.mu.Lock()
	fns := p.loadFns
	p.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (p *fakePage) InjectStyle(id, css string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.styles[id]; !ok {
		p.styles[id] = css
	}
}

func (p *fakePage) Mount(m MountSpec) Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := newFakeElement()
	p.mounted = append(p.mounted, el)
	p.mounts = append(p.mounts, m)
	return el
}

func (p *fakePage) Alert(message string) {
	p.mu.Lock()
	p.alerts = append(p.alerts, message)
	p.mu.Unlock()
}

func (p *fakePage) OnMessage(fn func(Message)) {
	p.mu.Lock()
	p.listener = fn
	p.mu.Unlock()
}

func (p *fakePage) Open(url string) error {
	p.mu.Lock()
	p.opened = append(p.opened, url)
	p.mu.Unlock()
	return nil
}

func (p *fakePage) alertList() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.alerts...)
}

func (p *fakePage) openedList() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.opened...)
}

type fakeAPI struct {
	statusCalls atomic.Int32
	configCalls atomic.Int32
	status      *StatusResponse
	statusErr   error
	config      *Config
	configErr   error

	mu      sync.Mutex
	reports []NavigationReport
}

func (a *fakeAPI) Status(ctx context.Context, botUUID string) (*StatusResponse, error) {
	a.statusCalls.Add(1)
	return a.status, a.statusErr
}

func (a *fakeAPI) ReportNavigation(ctx context.Context, r NavigationReport) error {
	a.mu.Lock()
	a.reports = append(a.reports, r)
	a.mu.Unlock()
	return nil
}

func (a *fakeAPI) Config(ctx context.Context) (*Config, error) {
	a.configCalls.Add(1)
	if a.configErr != nil {
		return nil, a.configErr
	}
	if a.config != nil {
		return a.config, nil
	}
	return &Config{VapiPublicKey: "pk_test"}, nil
}

func (a *fakeAPI) reportList() []NavigationReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]NavigationReport(nil), a.reports...)
}

type fakeSession struct {
	mu        sync.Mutex
	said      []string
	callStart func()
	onMessage func(SessionMessage)
}

func (s *fakeSession) Say(text string) error {
	s.mu.Lock()
	s.said = append(s.said, text)
	s.mu.Unlock()
	return nil
}

func (s *fakeSession) OnCallStart(fn func()) {
	s.mu.Lock()
	s.callStart = fn
	s.mu.Unlock()
}

func (s *fakeSession) OnMessage(fn func(SessionMessage)) {
	s.mu.Lock()
	s.onMessage = fn
	s.mu.Unlock()
}

func (s *fakeSession) saidList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.said...)
}

type fakeSDK struct {
	runs    atomic.Int32
	session *fakeSession
	err     error
}

func (s *fakeSDK) Run(publicKey, assistantID string) (Session, error) {
	s.runs.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

// fakeScripts blocks every load until release is closed.
type fakeScripts struct {
	loads   atomic.Int32
	release chan struct{}
	sdk     VoiceSDK

	mu       sync.Mutex
	failures int
}

func newFakeScripts(sdk VoiceSDK) *fakeScripts {
	s := &fakeScripts{release: make(chan struct{}), sdk: sdk}
	close(s.release)
	return s
}

func (s *fakeScripts) LoadSDK(ctx context.Context) (VoiceSDK, error) {
	s.loads.Add(1)
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("script load failed")
	}
	return s.sdk, nil
}

type instantClock struct{}

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}
