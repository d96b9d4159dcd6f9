package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"alcocontrol/internal/infra/metrics"
	"alcocontrol/internal/usecase"
)

// GoalExpiryWorker periodically deactivates goals whose end date has passed.
type GoalExpiryWorker struct {
	interval time.Duration
	goalUC   usecase.GoalUseCase
	log      *zerolog.Logger
}

func NewGoalExpiryWorker(interval time.Duration, goalUC usecase.GoalUseCase, logger *zerolog.Logger) *GoalExpiryWorker {
	compLog := logger.With().Str("component", "GoalExpiryWorker").Logger()
	return &GoalExpiryWorker{
		interval: interval,
		goalUC:   goalUC,
		log:      &compLog,
	}
}

func (w *GoalExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting goal expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping goal expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.goalUC.DeactivateExpired(ctx, time.Now())
			if err != nil {
				w.log.Error().Err(err).Msg("goal expiry check failed")
			}
			if n > 0 {
				metrics.IncGoalsExpired(n)
				w.log.Info().Int("count", n).Msg("expired goals deactivated")
			}
		}
	}
}
