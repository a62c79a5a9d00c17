package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/infrastructure/metrics"
)

// ErrPoolStopped is returned when a task arrives after Stop.
var ErrPoolStopped = errors.New("activation pool stopped")

// Pool runs activation tasks on a fixed set of background workers.
type Pool struct {
	tasks       chan *bot.ActivationTask
	workers     []*Worker
	workerCount int
	taskTimeout time.Duration
	log         zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// Config contains worker pool configuration.
type Config struct {
	WorkerCount int
	QueueSize   int
	TaskTimeout time.Duration
}

// NewPool creates a new worker pool. Tasks are accepted before Start and
// picked up once workers are running.
func NewPool(cfg Config, log zerolog.Logger) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	return &Pool{
		tasks:       make(chan *bot.ActivationTask, cfg.QueueSize),
		workerCount: cfg.WorkerCount,
		taskTimeout: cfg.TaskTimeout,
		log:         log.With().Str("component", "activation-pool").Logger(),
	}
}

// Enqueue hands a task to the pool without blocking.
func (p *Pool) Enqueue(task *bot.ActivationTask) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.tasks <- task:
		metrics.ActivationQueueDepth.Set(float64(len(p.tasks)))
		return nil
	default:
		p.log.Warn().Str("bot_uuid", task.BotUUID).Int("capacity", cap(p.tasks)).Msg("activation queue full")
		return bot.ErrQueueFull
	}
}

// Start initializes and starts all workers.
func (p *Pool) Start(ctx context.Context, executor bot.ActivationExecutor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return errors.New("activation pool already started")
	}
	if p.closed {
		return ErrPoolStopped
	}
	p.started = true

	p.log.Info().Int("worker_count", p.workerCount).Int("queue_size", cap(p.tasks)).Msg("starting activation pool")

	p.workers = make([]*Worker, p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		w := NewWorker(i+1, p.tasks, executor, p.taskTimeout, p.log)
		p.workers[i] = w

		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Start(ctx)
		}(w)
	}
	return nil
}

// Stop refuses new tasks and waits for queued ones to finish or ctx to expire.
func (p *Pool) Stop(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	started := p.started
	p.mu.Unlock()

	p.log.Info().Int("pending", len(p.tasks)).Msg("stopping activation pool")
	if !started {
		p.abandon()
		return
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("all activation workers stopped")
	case <-ctx.Done():
		p.log.Warn().Int("pending", len(p.tasks)).Msg("activation pool shutdown timed out")
	}
}

// QueueDepth returns the number of tasks waiting for a worker.
func (p *Pool) QueueDepth() int {
	return len(p.tasks)
}

// abandon completes tasks that will never run so waiters are released.
func (p *Pool) abandon() {
	for task := range p.tasks {
		p.log.Warn().Str("bot_uuid", task.BotUUID).Msg("activation abandoned at shutdown")
		task.Complete(bot.ActivationResult{Status: bot.StatusActivating}, ErrPoolStopped)
	}
	metrics.ActivationQueueDepth.Set(0)
}
