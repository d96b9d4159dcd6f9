package repository

import (
	"context"

	"alcocontrol/internal/domain/model"
)

type SoberPeriodRepository interface {
	Save(ctx context.Context, qx any, p *model.SoberPeriod) error
	FindByID(ctx context.Context, qx any, id string) (*model.SoberPeriod, error)
	// FindActiveByUser returns domain.ErrNotFound when the user has no
	// active period.
	FindActiveByUser(ctx context.Context, qx any, userID string) (*model.SoberPeriod, error)
	List(ctx context.Context, qx any, offset, limit int) ([]*model.SoberPeriod, error)
	ListByUser(ctx context.Context, qx any, userID string, offset, limit int) ([]*model.SoberPeriod, error)
}
