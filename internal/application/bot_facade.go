package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/usecase"
)

// BotFacade composes use cases into high-level bot commands.
// Facade methods return plain strings so the Telegram adapter just forwards
// them to the chat.
type BotFacade struct {
	UserUC  usecase.UserUseCase
	DrinkUC usecase.DrinkUseCase
	SoberUC usecase.SoberUseCase
	GoalUC  usecase.GoalUseCase
	StatsUC usecase.StatsUseCase
}

func NewBotFacade(
	userUC usecase.UserUseCase,
	drinkUC usecase.DrinkUseCase,
	soberUC usecase.SoberUseCase,
	goalUC usecase.GoalUseCase,
	statsUC usecase.StatsUseCase,
) *BotFacade {
	return &BotFacade{
		UserUC:  userUC,
		DrinkUC: drinkUC,
		SoberUC: soberUC,
		GoalUC:  goalUC,
		StatsUC: statsUC,
	}
}

// HandleStart registers or fetches the user and returns a welcome string.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username, firstName, lastName string) (string, error) {
	u, err := b.UserUC.RegisterOrFetch(ctx, tgID, username, firstName, lastName)
	if err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	name := u.FirstName
	if name == "" {
		name = u.Username
	}
	return fmt.Sprintf("Hi %s! I track your alcohol consumption.\nLog drinks, open sober periods and check /stats whenever you like.", name), nil
}

// HandleStats renders the user's statistics summary.
func (b *BotFacade) HandleStats(ctx context.Context, tgID int64) (string, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You are not registered yet. Send /start first.", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	stats, err := b.StatsUC.ForUser(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("compute statistics: %w", err)
	}

	sb := strings.Builder{}
	sb.WriteString("📊 Your statistics:\n")
	sb.WriteString(fmt.Sprintf("Pure alcohol total: %.1f ml\n", stats.TotalAlcohol))
	sb.WriteString(fmt.Sprintf("Days with drinks: %d\n", stats.DaysWithDrinks))
	if stats.SoberDays > 0 {
		sb.WriteString(fmt.Sprintf("Current sober streak: %d day(s)", stats.SoberDays))
	} else {
		sb.WriteString("No active sober period. Start one with /sober!")
	}
	return sb.String(), nil
}

// HandleSoberStart opens a sober period for the user.
func (b *BotFacade) HandleSoberStart(ctx context.Context, tgID int64) (string, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You are not registered yet. Send /start first.", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if _, err := b.SoberUC.Open(ctx, user.ID); err != nil {
		if errors.Is(err, domain.ErrActivePeriodExists) {
			return "You already have a sober period running. Keep going! 💪", nil
		}
		return "", fmt.Errorf("open period: %w", err)
	}
	return "🎉 Sober period started. Hang in there!", nil
}

// HandleSoberEnd closes the user's current sober period, if any.
func (b *BotFacade) HandleSoberEnd(ctx context.Context, tgID int64) (string, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You are not registered yet. Send /start first.", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	current, err := b.SoberUC.Current(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("find current period: %w", err)
	}
	if current == nil {
		return "No sober period is running right now.", nil
	}
	closed, err := b.SoberUC.Close(ctx, current.ID)
	if err != nil {
		return "", fmt.Errorf("close period: %w", err)
	}
	days := int(closed.EndTime.Sub(closed.StartTime).Hours() / 24)
	return fmt.Sprintf("Sober period ended after %d day(s). You can start a new one anytime with /sober.", days), nil
}

// HandleLogDrink records a drink event for the user.
func (b *BotFacade) HandleLogDrink(ctx context.Context, tgID int64, drinkType string, volume, alcoholContent float64) (string, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You are not registered yet. Send /start first.", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	drink, err := b.DrinkUC.Log(ctx, user.ID, usecase.DrinkInput{
		DrinkType:      drinkType,
		Volume:         volume,
		AlcoholContent: alcoholContent,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return "That doesn't look right: volume must be positive and alcohol content between 0 and 100.", nil
		}
		return "", fmt.Errorf("log drink: %w", err)
	}
	return fmt.Sprintf("Logged %s: %.0f ml at %.1f%% (%.1f ml pure alcohol).",
		drink.DrinkType, drink.Volume, drink.AlcoholContent, drink.PureAlcohol()), nil
}

// HandleGoals renders the user's goal list.
func (b *BotFacade) HandleGoals(ctx context.Context, tgID int64) (string, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You are not registered yet. Send /start first.", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	goals, err := b.GoalUC.ListByUser(ctx, user.ID, 0, 20)
	if err != nil {
		return "", fmt.Errorf("list goals: %w", err)
	}
	if len(goals) == 0 {
		return "You have no goals yet. Create one with /goal <type> <target> <period>.", nil
	}
	sb := strings.Builder{}
	sb.WriteString("🎯 Your goals:\n")
	for _, g := range goals {
		state := "active"
		if !g.IsActive {
			state = "done"
		}
		sb.WriteString(fmt.Sprintf("- %s: %.0f per %s (%s)\n", g.Type, g.TargetValue, g.Period, state))
	}
	return sb.String(), nil
}

// HandleCreateGoal creates a goal from bot input.
func (b *BotFacade) HandleCreateGoal(ctx context.Context, tgID int64, goalType model.GoalType, target float64, period model.GoalPeriod, endDate *time.Time) (string, error) {
	user, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You are not registered yet. Send /start first.", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	g, err := b.GoalUC.Create(ctx, user.ID, goalType, target, period, endDate)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return "Usage: /goal <sober_days|drinks_limit|spending_limit> <target> <daily|weekly|monthly>", nil
		}
		return "", fmt.Errorf("create goal: %w", err)
	}
	return fmt.Sprintf("Goal set: %s, target %.0f, %s.", g.Type, g.TargetValue, g.Period), nil
}
