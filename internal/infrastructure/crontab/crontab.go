package crontab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/infrastructure/cache"
	"jan-server/services/voicebot-api/internal/infrastructure/metrics"
	"jan-server/services/voicebot-api/internal/infrastructure/observability"
	"jan-server/services/voicebot-api/internal/utils/platformerrors"
)

const (
	DefaultSweepInterval = 5 // in minutes
	SweepJobTimeout      = 2 * time.Minute
	sweepLockName        = "activation-sweep"
)

// Sweeper promotes due pending bots.
type Sweeper interface {
	ActivateDue(ctx context.Context, limit int) (int, error)
}

// Locker serialises the sweep across replicas. A nil Locker runs the sweep locally.
type Locker interface {
	TryWithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// Config controls the activation sweep.
type Config struct {
	Enabled         bool
	IntervalMinutes int
	Batch           int
}

type Crontab struct {
	ctab    *crontab.Crontab
	sweeper Sweeper
	locker  Locker
	cfg     Config
	log     zerolog.Logger
}

func NewCrontab(sweeper Sweeper, locker Locker, cfg Config, log zerolog.Logger) *Crontab {
	if cfg.IntervalMinutes <= 0 {
		cfg.IntervalMinutes = DefaultSweepInterval
	}
	return &Crontab{
		ctab:    crontab.New(),
		sweeper: sweeper,
		locker:  locker,
		cfg:     cfg,
		log:     log.With().Str("component", "activation-sweep").Logger(),
	}
}

// Run blocks until ctx is done. Nothing is scheduled when the sweep is disabled.
func (c *Crontab) Run(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info().Msg("activation sweep disabled")
		<-ctx.Done()
		return nil
	}

	// execute once on server start
	c.Sweep(ctx)

	cronExpr := fmt.Sprintf("*/%d * * * *", c.cfg.IntervalMinutes)
	if err := c.ctab.AddJob(cronExpr, func() {
		jobCtx, cancel := context.WithTimeout(ctx, SweepJobTimeout)
		defer cancel()
		c.Sweep(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add activation sweep job")
	}
	c.log.Info().Int("interval_minutes", c.cfg.IntervalMinutes).Int("batch", c.cfg.Batch).Msg("activation sweep scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

// Sweep runs one pass and reports how many activations it started.
func (c *Crontab) Sweep(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	ctx, span := observability.StartSweepSpan(ctx, c.cfg.Batch)
	defer span.End()

	started := 0
	run := func(ctx context.Context) error {
		n, err := c.sweeper.ActivateDue(ctx, c.cfg.Batch)
		started = n
		return err
	}

	var err error
	if c.locker != nil {
		err = c.locker.TryWithLock(ctx, sweepLockName, SweepJobTimeout, run)
	} else {
		err = run(ctx)
	}

	switch {
	case errors.Is(err, cache.ErrLockHeld):
		c.log.Debug().Msg("activation sweep running on another replica")
		metrics.RecordSweep("skipped")
	case err != nil:
		observability.RecordError(span, err)
		c.log.Error().Err(err).Msg("activation sweep failed")
		metrics.RecordSweep("error")
	default:
		if started > 0 {
			c.log.Info().Int("started", started).Msg("activation sweep promoted due bots")
		}
		metrics.RecordSweep("ok")
		metrics.RecordActivationTriggered("sweep", started)
	}
	return started
}
