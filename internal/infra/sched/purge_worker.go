package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"privacy-governor/internal/domain"
	"privacy-governor/internal/infra/metrics"
	red "privacy-governor/internal/infra/redis"
	"privacy-governor/internal/usecase"
)

const purgeLockKey = "privacy:purge:lock"

// PurgeWorker periodically deletes expired usage records via the retention
// use case. Sweeps take a Redis lock first so two instances never run the
// same sweep; a held lock counts as a skipped sweep, not a failure.
type PurgeWorker struct {
	interval time.Duration
	retUC    usecase.RetentionUseCase
	locker   red.Locker
	log      *zerolog.Logger
}

func NewPurgeWorker(interval time.Duration, retUC usecase.RetentionUseCase, locker red.Locker, logger *zerolog.Logger) *PurgeWorker {
	compLog := logger.With().Str("component", "PurgeWorker").Logger()
	return &PurgeWorker{
		interval: interval,
		retUC:    retUC,
		locker:   locker,
		log:      &compLog,
	}
}

func (w *PurgeWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting purge worker")
	// Run once on startup, then on every tick
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping purge worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *PurgeWorker) sweep(ctx context.Context) {
	token, err := w.locker.TryLock(ctx, purgeLockKey, w.interval)
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			metrics.IncPurgeSweep("skipped")
			w.log.Debug().Msg("purge lock held elsewhere, skipping sweep")
			return
		}
		metrics.IncPurgeSweep("failed")
		w.log.Error().Err(err).Msg("purge lock error")
		return
	}
	defer func() { _ = w.locker.Unlock(ctx, purgeLockKey, token) }()

	n, err := w.retUC.PurgeExpired(ctx, time.Now())
	if err != nil {
		metrics.IncPurgeSweep("failed")
		w.log.Error().Err(err).Msg("purge sweep failed")
		return
	}
	metrics.IncPurgeSweep("ok")
	if n > 0 {
		metrics.AddPurgedRecords(n)
		w.log.Info().Int64("count", n).Msg("expired usage records purged")
	}
}
