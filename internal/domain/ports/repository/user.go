package repository

import (
	"context"

	"alcocontrol/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, qx any, u *model.User) error
	FindByID(ctx context.Context, qx any, id string) (*model.User, error)
	FindByTelegramID(ctx context.Context, qx any, tgID int64) (*model.User, error)
	List(ctx context.Context, qx any, offset, limit int) ([]*model.User, error)
	CountUsers(ctx context.Context, qx any) (int, error)
	UpdateSettings(ctx context.Context, qx any, id string, settings map[string]any) error
}
