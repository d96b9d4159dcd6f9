package model

import (
	"time"

	"alcocontrol/internal/domain"

	"github.com/google/uuid"
)

type GoalType string

const (
	GoalSoberDays     GoalType = "sober_days"
	GoalDrinksLimit   GoalType = "drinks_limit"
	GoalSpendingLimit GoalType = "spending_limit"
)

type GoalPeriod string

const (
	GoalPeriodDaily   GoalPeriod = "daily"
	GoalPeriodWeekly  GoalPeriod = "weekly"
	GoalPeriodMonthly GoalPeriod = "monthly"
)

// Goal is a behavioral target. Goals are immutable once created except for
// deactivation when their end date passes.
type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Type        GoalType   `json:"type"`
	TargetValue float64    `json:"target_value"`
	Period      GoalPeriod `json:"period"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsActive    bool       `json:"is_active"`
}

func NewGoal(id, userID string, goalType GoalType, targetValue float64, period GoalPeriod) (*Goal, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	switch goalType {
	case GoalSoberDays, GoalDrinksLimit, GoalSpendingLimit:
	default:
		return nil, domain.ErrInvalidArgument
	}
	switch period {
	case GoalPeriodDaily, GoalPeriodWeekly, GoalPeriodMonthly:
	default:
		return nil, domain.ErrInvalidArgument
	}
	if targetValue <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Goal{
		ID:          id,
		UserID:      userID,
		Type:        goalType,
		TargetValue: targetValue,
		Period:      period,
		StartDate:   time.Now(),
		IsActive:    true,
	}, nil
}

// Expired reports whether the goal has an end date in the past.
func (g *Goal) Expired(now time.Time) bool {
	return g.EndDate != nil && g.EndDate.Before(now)
}
