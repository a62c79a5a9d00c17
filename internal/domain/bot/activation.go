package bot

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueFull is returned by an ActivationQueue that cannot accept more work.
var ErrQueueFull = errors.New("activation queue is full")

// Provisioner creates the external voice assistant for a bot and returns its reference.
type Provisioner interface {
	Provision(ctx context.Context, b *Bot, knowledgeBase string) (string, error)
}

// KnowledgeSource assembles the reference text injected into the assistant prompt.
type KnowledgeSource interface {
	KnowledgeBase(ctx context.Context, botUUID string) (string, error)
}

// ActivationQueue accepts provisioning tasks for asynchronous execution.
type ActivationQueue interface {
	Enqueue(task *ActivationTask) error
}

// ActivationExecutor runs one provisioning attempt and writes its outcome.
type ActivationExecutor interface {
	ExecuteActivation(ctx context.Context, botUUID string) (ActivationResult, error)
}

// ActivationTask is a future for one provisioning attempt. The status endpoint
// fires it and returns; the worker completes it after the outcome is persisted.
type ActivationTask struct {
	BotUUID string

	once   sync.Once
	done   chan struct{}
	result ActivationResult
	err    error
}

// NewActivationTask creates an incomplete task for the bot.
func NewActivationTask(botUUID string) *ActivationTask {
	return &ActivationTask{
		BotUUID: botUUID,
		done:    make(chan struct{}),
	}
}

// Done is closed once the task has completed.
func (t *ActivationTask) Done() <-chan struct{} {
	return t.done
}

// Complete records the outcome. Only the first call has an effect.
func (t *ActivationTask) Complete(result ActivationResult, err error) {
	t.once.Do(func() {
		t.result = result
		t.err = err
		close(t.done)
	})
}

// Result blocks until the task completes or ctx is done.
func (t *ActivationTask) Result(ctx context.Context) (ActivationResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return ActivationResult{}, ctx.Err()
	}
}
