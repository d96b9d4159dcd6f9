package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
	"alcocontrol/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	// ForUser derives the statistics summary for one user.
	ForUser(ctx context.Context, userID string) (model.Statistics, error)
	// Totals aggregates across all users for the admin view.
	Totals(ctx context.Context) (users int, err error)
}

type statsUC struct {
	drinks  repository.DrinkRepository
	periods repository.SoberPeriodRepository
	users   repository.UserRepository

	log *zerolog.Logger
}

func NewStatsUseCase(drinks repository.DrinkRepository, periods repository.SoberPeriodRepository, users repository.UserRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{drinks: drinks, periods: periods, users: users, log: logger}
}

// ForUser loads the user's drink rows and current active period and feeds
// them to the pure aggregator. A user with no rows yields all-zero
// statistics; user existence is deliberately not checked, so an unknown
// userID also yields zeros rather than an error.
func (s *statsUC) ForUser(ctx context.Context, userID string) (model.Statistics, error) {
	defer logging.TraceDuration(s.log, "StatsUC.ForUser")()

	drinks, err := s.drinks.ListAllByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return model.Statistics{}, fmt.Errorf("list drinks: %w", err)
	}

	period, err := s.periods.FindActiveByUser(ctx, repository.NoTX, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return model.Statistics{}, fmt.Errorf("find active period: %w", err)
	}

	return model.ComputeStatistics(drinks, period, time.Now()), nil
}

func (s *statsUC) Totals(ctx context.Context) (int, error) {
	defer logging.TraceDuration(s.log, "StatsUC.Totals")()
	return s.users.CountUsers(ctx, repository.NoTX)
}
