package repository

import (
	"context"

	"alcocontrol/internal/domain/model"
)

type DrinkRepository interface {
	Save(ctx context.Context, qx any, d *model.Drink) error
	FindByID(ctx context.Context, qx any, id string) (*model.Drink, error)
	List(ctx context.Context, qx any, offset, limit int) ([]*model.Drink, error)
	ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.Drink, error)
	// ListAllByUser returns every drink row for the user in creation order;
	// the statistics aggregation reads the full set.
	ListAllByUser(ctx context.Context, qx any, userID string) ([]*model.Drink, error)
	CountByUser(ctx context.Context, qx any, userID string) (int, error)
}
