package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/infrastructure/metrics"
	"jan-server/services/voicebot-api/internal/infrastructure/observability"
)

// Worker executes activation tasks from the pool channel.
type Worker struct {
	id          int
	tasks       <-chan *bot.ActivationTask
	executor    bot.ActivationExecutor
	taskTimeout time.Duration
	log         zerolog.Logger
}

// NewWorker creates a new background worker.
func NewWorker(
	id int,
	tasks <-chan *bot.ActivationTask,
	executor bot.ActivationExecutor,
	taskTimeout time.Duration,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		id:          id,
		tasks:       tasks,
		executor:    executor,
		taskTimeout: taskTimeout,
		log:         log.With().Int("worker_id", id).Str("component", "activation-worker").Logger(),
	}
}

// Start processes tasks until the channel is closed and drained. Cancelling
// ctx does not abort a task already running.
func (w *Worker) Start(ctx context.Context) {
	w.log.Debug().Msg("worker started")
	for task := range w.tasks {
		metrics.ActivationQueueDepth.Set(float64(len(w.tasks)))
		w.process(ctx, task)
	}
	w.log.Debug().Msg("worker stopped")
}

func (w *Worker) process(parent context.Context, task *bot.ActivationTask) {
	ctx := context.WithoutCancel(parent)
	if w.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.taskTimeout)
		defer cancel()
	}

	ctx, span := observability.StartActivationSpan(ctx, task.BotUUID, w.id)
	defer span.End()

	start := time.Now()
	result, err := w.execute(ctx, task.BotUUID)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		observability.RecordError(span, err)
		w.log.Error().Err(err).Str("bot_uuid", task.BotUUID).Dur("duration", elapsed).Msg("activation failed")
	} else {
		w.log.Info().Str("bot_uuid", task.BotUUID).Str("status", result.Status.String()).Dur("duration", elapsed).Msg("activation completed")
	}
	observability.AddStatusTransition(span, bot.StatusActivating.String(), result.Status.String())
	metrics.RecordProvisioning(outcome, elapsed.Seconds())

	task.Complete(result, err)
}

// execute shields the worker from a panicking executor.
func (w *Worker) execute(ctx context.Context, botUUID string) (result bot.ActivationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = bot.Failed("activation failed unexpectedly")
			err = fmt.Errorf("activation panicked: %v", r)
		}
	}()
	return w.executor.ExecuteActivation(ctx, botUUID)
}
