package usecase

import (
	"context"
	"errors"

	"alcocontrol/internal/domain"
	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
	"alcocontrol/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes user-related operations used by the bot and API flows.
type UserUseCase interface {
	RegisterOrFetch(ctx context.Context, tgID int64, username, firstName, lastName string) (*model.User, error)
	Create(ctx context.Context, tgID int64, username, firstName, lastName string, settings map[string]any) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
	UpdateSettings(ctx context.Context, id string, settings map[string]any) error
}

type userUC struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, tm: tm, log: logger}
}

// RegisterOrFetch finds the user by Telegram ID, refreshing the profile
// fields, or creates a new record. The read and the conditional write run in
// a single Serializable transaction so concurrent registrations of the same
// Telegram account cannot both insert; the unique constraint on telegram_id
// backstops the check.
func (u *userUC) RegisterOrFetch(ctx context.Context, tgID int64, username, firstName, lastName string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.RegisterOrFetch")()

	var user *model.User
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByTelegramID(ctx, tx, tgID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if usr != nil {
			changed := false
			if username != "" && usr.Username != username {
				usr.Username = username
				changed = true
			}
			if firstName != "" && usr.FirstName != firstName {
				usr.FirstName = firstName
				changed = true
			}
			if lastName != "" && usr.LastName != lastName {
				usr.LastName = lastName
				changed = true
			}
			if changed {
				if err := u.users.Save(ctx, tx, usr); err != nil {
					u.log.Error().Err(err).Msg("failed to update user profile")
					return err
				}
			}
			user = usr
			return nil
		}

		nu, err := model.NewUser("", tgID, username, firstName, lastName)
		if err != nil {
			return err
		}
		if err := u.users.Save(ctx, tx, nu); err != nil {
			return err
		}
		user = nu
		return nil
	})

	return user, err
}

// Create inserts a new user and fails with domain.ErrAlreadyExists when the
// Telegram ID is already registered. Used by the HTTP API, where duplicate
// registration is an error rather than a fetch.
func (u *userUC) Create(ctx context.Context, tgID int64, username, firstName, lastName string, settings map[string]any) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Create")()

	if err := model.ValidateSettings(settings); err != nil {
		return nil, err
	}

	var user *model.User
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if existing, err := u.users.FindByTelegramID(ctx, tx, tgID); err == nil && existing != nil {
			return domain.ErrAlreadyExists
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		nu, err := model.NewUser("", tgID, username, firstName, lastName)
		if err != nil {
			return err
		}
		if len(settings) > 0 {
			nu.Settings = settings
		}
		if err := u.users.Save(ctx, tx, nu); err != nil {
			return err
		}
		user = nu
		return nil
	})
	return user, err
}

func (u *userUC) GetByID(ctx context.Context, id string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.GetByID")()
	return u.users.FindByID(ctx, repository.NoTX, id)
}

func (u *userUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.GetByTelegramID")()
	return u.users.FindByTelegramID(ctx, repository.NoTX, tgID)
}

func (u *userUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.List")()
	offset, limit = clampPage(offset, limit)
	return u.users.List(ctx, repository.NoTX, offset, limit)
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	defer logging.TraceDuration(u.log, "UserUC.Count")()
	return u.users.CountUsers(ctx, repository.NoTX)
}

func (u *userUC) UpdateSettings(ctx context.Context, id string, settings map[string]any) error {
	defer logging.TraceDuration(u.log, "UserUC.UpdateSettings")()
	if err := model.ValidateSettings(settings); err != nil {
		return err
	}
	return u.users.UpdateSettings(ctx, repository.NoTX, id, settings)
}
