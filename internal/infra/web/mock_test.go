//go:build !integration

package web

import (
	"context"
	"time"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/usecase"
)

// --- Stub use cases ---
//
// Each stub satisfies the full use-case interface; tests override the Func
// fields they care about and leave the rest returning zero values.

type stubUserUC struct {
	CreateFunc         func(ctx context.Context, tgID int64, username, firstName, lastName string, settings map[string]any) (*model.User, error)
	GetByIDFunc        func(ctx context.Context, id string) (*model.User, error)
	ListFunc           func(ctx context.Context, offset, limit int) ([]*model.User, error)
	CountFunc          func(ctx context.Context) (int, error)
	UpdateSettingsFunc func(ctx context.Context, id string, settings map[string]any) error
}

var _ usecase.UserUseCase = (*stubUserUC)(nil)

func (s *stubUserUC) RegisterOrFetch(ctx context.Context, tgID int64, username, firstName, lastName string) (*model.User, error) {
	return nil, domain.ErrNotFound
}

func (s *stubUserUC) Create(ctx context.Context, tgID int64, username, firstName, lastName string, settings map[string]any) (*model.User, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, tgID, username, firstName, lastName, settings)
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserUC) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	return nil, domain.ErrNotFound
}

func (s *stubUserUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, offset, limit)
	}
	return nil, nil
}

func (s *stubUserUC) Count(ctx context.Context) (int, error) {
	if s.CountFunc != nil {
		return s.CountFunc(ctx)
	}
	return 0, nil
}

func (s *stubUserUC) UpdateSettings(ctx context.Context, id string, settings map[string]any) error {
	if s.UpdateSettingsFunc != nil {
		return s.UpdateSettingsFunc(ctx, id, settings)
	}
	return nil
}

type stubDrinkUC struct {
	LogFunc        func(ctx context.Context, userID string, in usecase.DrinkInput) (*model.Drink, error)
	ListByUserFunc func(ctx context.Context, userID string, offset, limit int) ([]*model.Drink, error)
}

var _ usecase.DrinkUseCase = (*stubDrinkUC)(nil)

func (s *stubDrinkUC) Log(ctx context.Context, userID string, in usecase.DrinkInput) (*model.Drink, error) {
	if s.LogFunc != nil {
		return s.LogFunc(ctx, userID, in)
	}
	return nil, domain.ErrNotFound
}

func (s *stubDrinkUC) List(ctx context.Context, offset, limit int) ([]*model.Drink, error) {
	return nil, nil
}

func (s *stubDrinkUC) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Drink, error) {
	if s.ListByUserFunc != nil {
		return s.ListByUserFunc(ctx, userID, offset, limit)
	}
	return nil, nil
}

type stubSoberUC struct {
	OpenFunc    func(ctx context.Context, userID string) (*model.SoberPeriod, error)
	CloseFunc   func(ctx context.Context, periodID string) (*model.SoberPeriod, error)
	CurrentFunc func(ctx context.Context, userID string) (*model.SoberPeriod, error)
}

var _ usecase.SoberUseCase = (*stubSoberUC)(nil)

func (s *stubSoberUC) Open(ctx context.Context, userID string) (*model.SoberPeriod, error) {
	if s.OpenFunc != nil {
		return s.OpenFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubSoberUC) Close(ctx context.Context, periodID string) (*model.SoberPeriod, error) {
	if s.CloseFunc != nil {
		return s.CloseFunc(ctx, periodID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubSoberUC) Current(ctx context.Context, userID string) (*model.SoberPeriod, error) {
	if s.CurrentFunc != nil {
		return s.CurrentFunc(ctx, userID)
	}
	return nil, nil
}

func (s *stubSoberUC) List(ctx context.Context, offset, limit int) ([]*model.SoberPeriod, error) {
	return nil, nil
}

func (s *stubSoberUC) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.SoberPeriod, error) {
	return nil, nil
}

type stubGoalUC struct {
	CreateFunc func(ctx context.Context, userID string, goalType model.GoalType, targetValue float64, period model.GoalPeriod, endDate *time.Time) (*model.Goal, error)
}

var _ usecase.GoalUseCase = (*stubGoalUC)(nil)

func (s *stubGoalUC) Create(ctx context.Context, userID string, goalType model.GoalType, targetValue float64, period model.GoalPeriod, endDate *time.Time) (*model.Goal, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, userID, goalType, targetValue, period, endDate)
	}
	return nil, domain.ErrNotFound
}

func (s *stubGoalUC) List(ctx context.Context, offset, limit int) ([]*model.Goal, error) {
	return nil, nil
}

func (s *stubGoalUC) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Goal, error) {
	return nil, nil
}

func (s *stubGoalUC) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

type stubStatsUC struct {
	ForUserFunc func(ctx context.Context, userID string) (model.Statistics, error)
	TotalsFunc  func(ctx context.Context) (int, error)
}

var _ usecase.StatsUseCase = (*stubStatsUC)(nil)

func (s *stubStatsUC) ForUser(ctx context.Context, userID string) (model.Statistics, error) {
	if s.ForUserFunc != nil {
		return s.ForUserFunc(ctx, userID)
	}
	return model.Statistics{}, nil
}

func (s *stubStatsUC) Totals(ctx context.Context) (int, error) {
	if s.TotalsFunc != nil {
		return s.TotalsFunc(ctx)
	}
	return 0, nil
}
