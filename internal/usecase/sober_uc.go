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
	"alcocontrol/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ SoberUseCase = (*soberUC)(nil)

// SoberUseCase owns the sober-period lifecycle: a period is opened active,
// closed exactly once, and a user can have at most one active period.
type SoberUseCase interface {
	Open(ctx context.Context, userID string) (*model.SoberPeriod, error)
	Close(ctx context.Context, periodID string) (*model.SoberPeriod, error)
	Current(ctx context.Context, userID string) (*model.SoberPeriod, error)
	List(ctx context.Context, offset, limit int) ([]*model.SoberPeriod, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.SoberPeriod, error)
}

type soberUC struct {
	periods repository.SoberPeriodRepository
	users   repository.UserRepository
	tm      repository.TransactionManager
	log     *zerolog.Logger
}

func NewSoberUseCase(periods repository.SoberPeriodRepository, users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *soberUC {
	return &soberUC{periods: periods, users: users, tm: tm, log: logger}
}

// Open starts a new sober period for the user. The active-period check and
// the insert run in one Serializable transaction; concurrent opens for the
// same user cannot both commit, and the partial unique index on
// sober_periods(user_id) WHERE is_active backstops the invariant at the
// storage level.
func (s *soberUC) Open(ctx context.Context, userID string) (*model.SoberPeriod, error) {
	defer logging.TraceDuration(s.log, "SoberUC.Open")()

	if _, err := s.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	var period *model.SoberPeriod
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := s.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		existing, err := s.periods.FindActiveByUser(ctx, tx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			return domain.ErrActivePeriodExists
		}

		p, err := model.NewSoberPeriod("", userID)
		if err != nil {
			return err
		}
		if err := s.periods.Save(ctx, tx, p); err != nil {
			return err
		}
		period = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncSoberPeriodOpened()
	s.log.Info().Str("user_id", userID).Str("period_id", period.ID).Msg("sober period opened")
	return period, nil
}

// Close ends the period. Closing an already closed period is idempotent: the
// stored record is returned unchanged, end time included.
func (s *soberUC) Close(ctx context.Context, periodID string) (*model.SoberPeriod, error) {
	defer logging.TraceDuration(s.log, "SoberUC.Close")()

	period, err := s.periods.FindByID(ctx, repository.NoTX, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsActive {
		return period, nil
	}

	period.Close(time.Now())
	if err := s.periods.Save(ctx, repository.NoTX, period); err != nil {
		return nil, fmt.Errorf("save period: %w", err)
	}

	metrics.IncSoberPeriodClosed()
	s.log.Info().Str("period_id", period.ID).Msg("sober period closed")
	return period, nil
}

// Current returns the user's active period, or (nil, nil) when there is none;
// the absence of an active period is not an error.
func (s *soberUC) Current(ctx context.Context, userID string) (*model.SoberPeriod, error) {
	defer logging.TraceDuration(s.log, "SoberUC.Current")()

	period, err := s.periods.FindActiveByUser(ctx, repository.NoTX, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return period, err
}

func (s *soberUC) List(ctx context.Context, offset, limit int) ([]*model.SoberPeriod, error) {
	defer logging.TraceDuration(s.log, "SoberUC.List")()
	offset, limit = clampPage(offset, limit)
	return s.periods.List(ctx, repository.NoTX, offset, limit)
}

func (s *soberUC) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.SoberPeriod, error) {
	defer logging.TraceDuration(s.log, "SoberUC.ListByUser")()
	offset, limit = clampPage(offset, limit)
	return s.periods.ListByUser(ctx, repository.NoTX, userID, offset, limit)
}
