package usecase

import (
	"context"
	"fmt"
	"time"

	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
	"alcocontrol/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ GoalUseCase = (*goalUC)(nil)

type GoalUseCase interface {
	Create(ctx context.Context, userID string, goalType model.GoalType, targetValue float64, period model.GoalPeriod, endDate *time.Time) (*model.Goal, error)
	List(ctx context.Context, offset, limit int) ([]*model.Goal, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Goal, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int, error)
}

type goalUC struct {
	goals repository.GoalRepository
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewGoalUseCase(goals repository.GoalRepository, users repository.UserRepository, logger *zerolog.Logger) *goalUC {
	return &goalUC{goals: goals, users: users, log: logger}
}

func (g *goalUC) Create(ctx context.Context, userID string, goalType model.GoalType, targetValue float64, period model.GoalPeriod, endDate *time.Time) (*model.Goal, error) {
	defer logging.TraceDuration(g.log, "GoalUC.Create")()

	if _, err := g.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	goal, err := model.NewGoal("", userID, goalType, targetValue, period)
	if err != nil {
		return nil, err
	}
	goal.EndDate = endDate

	if err := g.goals.Save(ctx, repository.NoTX, goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}
	return goal, nil
}

func (g *goalUC) List(ctx context.Context, offset, limit int) ([]*model.Goal, error) {
	defer logging.TraceDuration(g.log, "GoalUC.List")()
	offset, limit = clampPage(offset, limit)
	return g.goals.List(ctx, repository.NoTX, offset, limit)
}

func (g *goalUC) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Goal, error) {
	defer logging.TraceDuration(g.log, "GoalUC.ListByUser")()
	offset, limit = clampPage(offset, limit)
	return g.goals.ListByUser(ctx, repository.NoTX, userID, offset, limit)
}

// DeactivateExpired retires goals whose end date has passed. Driven by the
// scheduler; safe to call repeatedly.
func (g *goalUC) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	defer logging.TraceDuration(g.log, "GoalUC.DeactivateExpired")()
	return g.goals.DeactivateExpired(ctx, repository.NoTX, now)
}
