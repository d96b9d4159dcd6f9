package repository

import (
	"context"
	"time"

	"alcocontrol/internal/domain/model"
)

type GoalRepository interface {
	Save(ctx context.Context, qx any, g *model.Goal) error
	FindByID(ctx context.Context, qx any, id string) (*model.Goal, error)
	List(ctx context.Context, qx any, offset, limit int) ([]*model.Goal, error)
	ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Goal, error)
	// DeactivateExpired flips is_active off for goals whose end date passed
	// and returns how many rows changed.
	DeactivateExpired(ctx context.Context, qx any, now time.Time) (int, error)
}
