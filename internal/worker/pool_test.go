package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/voicebot-api/internal/domain/bot"
)

type executorFunc func(ctx context.Context, botUUID string) (bot.ActivationResult, error)

func (f executorFunc) ExecuteActivation(ctx context.Context, botUUID string) (bot.ActivationResult, error) {
	return f(ctx, botUUID)
}

func waitResult(t *testing.T, task *bot.ActivationTask) (bot.ActivationResult, error) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("task %s did not complete", task.BotUUID)
	}
	return task.Result(context.Background())
}

func TestPool_ExecutesEnqueuedTasks(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 2, QueueSize: 8, TaskTimeout: time.Second}, zerolog.Nop())

	var calls atomic.Int32
	require.NoError(t, pool.Start(context.Background(), executorFunc(func(ctx context.Context, botUUID string) (bot.ActivationResult, error) {
		calls.Add(1)
		return bot.Succeeded("asst_"+botUUID, time.Now()), nil
	})))
	defer pool.Stop(context.Background())

	tasks := []*bot.ActivationTask{bot.NewActivationTask("a"), bot.NewActivationTask("b"), bot.NewActivationTask("c")}
	for _, task := range tasks {
		require.NoError(t, pool.Enqueue(task))
	}
	for _, task := range tasks {
		res, err := waitResult(t, task)
		require.NoError(t, err)
		assert.Equal(t, bot.StatusActive, res.Status)
		require.NotNil(t, res.AssistantReference)
		assert.Equal(t, "asst_"+task.BotUUID, *res.AssistantReference)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestPool_EnqueueRejectsWhenFull(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, QueueSize: 1}, zerolog.Nop())

	require.NoError(t, pool.Enqueue(bot.NewActivationTask("first")))
	err := pool.Enqueue(bot.NewActivationTask("second"))
	assert.ErrorIs(t, err, bot.ErrQueueFull)
	assert.Equal(t, 1, pool.QueueDepth())

	pool.Stop(context.Background())
}

func TestPool_StopDrainsQueuedTasks(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, QueueSize: 4}, zerolog.Nop())

	release := make(chan struct{})
	var mu sync.Mutex
	var seen []string
	require.NoError(t, pool.Start(context.Background(), executorFunc(func(ctx context.Context, botUUID string) (bot.ActivationResult, error) {
		<-release
		mu.Lock()
		seen = append(seen, botUUID)
		mu.Unlock()
		return bot.Failed("boom"), errors.New("boom")
	})))

	first := bot.NewActivationTask("one")
	second := bot.NewActivationTask("two")
	require.NoError(t, pool.Enqueue(first))
	require.NoError(t, pool.Enqueue(second))

	stopped := make(chan struct{})
	go func() {
		pool.Stop(context.Background())
		close(stopped)
	}()
	close(release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	_, err := waitResult(t, second)
	assert.EqualError(t, err, "boom")
	mu.Lock()
	assert.Equal(t, []string{"one", "two"}, seen)
	mu.Unlock()

	assert.ErrorIs(t, pool.Enqueue(bot.NewActivationTask("late")), ErrPoolStopped)
}

func TestPool_StopWithoutStartAbandonsTasks(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, QueueSize: 2}, zerolog.Nop())
	task := bot.NewActivationTask("never")
	require.NoError(t, pool.Enqueue(task))

	pool.Stop(context.Background())

	_, err := waitResult(t, task)
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestWorker_RecoversFromPanic(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, QueueSize: 1}, zerolog.Nop())
	require.NoError(t, pool.Start(context.Background(), executorFunc(func(ctx context.Context, botUUID string) (bot.ActivationResult, error) {
		panic("provider exploded")
	})))
	defer pool.Stop(context.Background())

	task := bot.NewActivationTask("p")
	require.NoError(t, pool.Enqueue(task))
	res, err := waitResult(t, task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider exploded")
	assert.Equal(t, bot.StatusFailed, res.Status)
}

func TestWorker_AppliesTaskTimeout(t *testing.T) {
	pool := NewPool(Config{WorkerCount: 1, QueueSize: 1, TaskTimeout: 20 * time.Millisecond}, zerolog.Nop())
	require.NoError(t, pool.Start(context.Background(), executorFunc(func(ctx context.Context, botUUID string) (bot.ActivationResult, error) {
		<-ctx.Done()
		return bot.Failed(ctx.Err().Error()), ctx.Err()
	})))
	defer pool.Stop(context.Background())

	task := bot.NewActivationTask("slow")
	require.NoError(t, pool.Enqueue(task))
	_, err := waitResult(t, task)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
