package crontab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"jan-server/services/voicebot-api/internal/infrastructure/cache"
)

type fakeSweeper struct {
	started int
	err     error
	limits  []int
}

func (f *fakeSweeper) ActivateDue(ctx context.Context, limit int) (int, error) {
	f.limits = append(f.limits, limit)
	return f.started, f.err
}

type fakeLocker struct {
	held  bool
	names []string
}

func (f *fakeLocker) TryWithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error {
	f.names = append(f.names, name)
	if f.held {
		return cache.ErrLockHeld
	}
	return fn(ctx)
}

func TestSweep(t *testing.T) {
	tests := []struct {
		name        string
		sweeper     *fakeSweeper
		locker      *fakeLocker
		wantStarted int
		wantCalls   int
	}{
		{name: "without locker", sweeper: &fakeSweeper{started: 3}, wantStarted: 3, wantCalls: 1},
		{name: "lock acquired", sweeper: &fakeSweeper{started: 2}, locker: &fakeLocker{}, wantStarted: 2, wantCalls: 1},
		{name: "lock held elsewhere", sweeper: &fakeSweeper{started: 2}, locker: &fakeLocker{held: true}, wantStarted: 0, wantCalls: 0},
		{name: "sweeper error", sweeper: &fakeSweeper{err: errors.New("db down")}, wantStarted: 0, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var locker Locker
			if tt.locker != nil {
				locker = tt.locker
			}
			c := NewCrontab(tt.sweeper, locker, Config{Enabled: true, Batch: 25}, zerolog.Nop())

			got := c.Sweep(context.Background())

			assert.Equal(t, tt.wantStarted, got)
			assert.Len(t, tt.sweeper.limits, tt.wantCalls)
			for _, limit := range tt.sweeper.limits {
				assert.Equal(t, 25, limit)
			}
			if tt.locker != nil {
				assert.Equal(t, []string{sweepLockName}, tt.locker.names)
			}
		})
	}
}

func TestRun_DisabledDoesNotSweep(t *testing.T) {
	sweeper := &fakeSweeper{started: 1}
	c := NewCrontab(sweeper, nil, Config{Enabled: false}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Empty(t, sweeper.limits)
}

func TestSweep_CancelledContextIsNoop(t *testing.T) {
	sweeper := &fakeSweeper{started: 1}
	c := NewCrontab(sweeper, nil, Config{Enabled: true}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 0, c.Sweep(ctx))
	assert.Empty(t, sweeper.limits)
}
