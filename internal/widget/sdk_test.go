package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSDKLoader_CoalescesConcurrentLoads(t *testing.T) {
	sdk := &fakeSDK{session: &fakeSession{}}
	scripts := &fakeScripts{release: make(chan struct{}), sdk: sdk}
	loader := NewSDKLoader(scripts)

	const callers = 10
	var wg sync.WaitGroup
	results := make([]VoiceSDK, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := loader.Load(context.Background())
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}

	require.Eventually(t, func() bool { return scripts.loads.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(scripts.release)
	wg.Wait()

	assert.Equal(t, int32(1), scripts.loads.Load())
	for _, got := range results {
		assert.Same(t, sdk, got)
	}

	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), scripts.loads.Load(), "a loaded sdk is kept")
}

func TestSDKLoader_RetriesAfterFailure(t *testing.T) {
	sdk := &fakeSDK{session: &fakeSession{}}
	scripts := newFakeScripts(sdk)
	scripts.failures = 1
	loader := NewSDKLoader(scripts)

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	got, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, sdk, got)
	assert.Equal(t, int32(2), scripts.loads.Load())
}
