package widget

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SDKURL is the voice SDK script injected on first use.
const SDKURL = "https://cdn.jsdelivr.net/gh/VapiAI/html-script-tag@latest/dist/assets/index.js"

// SDKLoader shares one in-flight load between callers and keeps a successful
// result for the page lifetime. A failed load is forgotten so a later click
// can try again.
type SDKLoader struct {
	source ScriptLoader
	group  singleflight.Group

	mu  sync.Mutex
	sdk VoiceSDK
}

func NewSDKLoader(source ScriptLoader) *SDKLoader {
	return &SDKLoader{source: source}
}

// Load returns the SDK, loading it at most once concurrently.
func (l *SDKLoader) Load(ctx context.Context) (VoiceSDK, error) {
	l.mu.Lock()
	if l.sdk != nil {
		sdk := l.sdk
		l.mu.Unlock()
		return sdk, nil
	}
	l.mu.Unlock()

	v, err, _ := l.group.Do("sdk", func() (any, error) {
		l.mu.Lock()
		if l.sdk != nil {
			sdk := l.sdk
			l.mu.Unlock()
			return sdk, nil
		}
		l.mu.Unlock()

		sdk, err := l.source.LoadSDK(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.sdk = sdk
		l.mu.Unlock()
		return sdk, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(VoiceSDK), nil
}
