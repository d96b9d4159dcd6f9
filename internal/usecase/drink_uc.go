package usecase

import (
	"context"
	"fmt"

	"alcocontrol/internal/domain/model"
	"alcocontrol/internal/domain/ports/repository"
	"alcocontrol/internal/infra/logging"
	"alcocontrol/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ DrinkUseCase = (*drinkUC)(nil)

// DrinkInput carries the caller-supplied fields of a new drink event.
type DrinkInput struct {
	DrinkType      string
	Volume         float64
	AlcoholContent float64
	Price          *float64
	Location       string
	Mood           string
	Comment        string
}

type DrinkUseCase interface {
	Log(ctx context.Context, userID string, in DrinkInput) (*model.Drink, error)
	List(ctx context.Context, offset, limit int) ([]*model.Drink, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Drink, error)
}

type drinkUC struct {
	drinks repository.DrinkRepository
	users  repository.UserRepository
	log    *zerolog.Logger
}

func NewDrinkUseCase(drinks repository.DrinkRepository, users repository.UserRepository, logger *zerolog.Logger) *drinkUC {
	return &drinkUC{drinks: drinks, users: users, log: logger}
}

// Log validates and records a drink event. Volume must be positive and the
// alcohol content within [0,100]; both rules are re-checked by the storage
// constraints. The owning user must exist.
func (d *drinkUC) Log(ctx context.Context, userID string, in DrinkInput) (*model.Drink, error) {
	defer logging.TraceDuration(d.log, "DrinkUC.Log")()

	if _, err := d.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	drink, err := model.NewDrink("", userID, in.DrinkType, in.Volume, in.AlcoholContent)
	if err != nil {
		return nil, err
	}
	drink.Price = in.Price
	drink.Location = in.Location
	drink.Mood = in.Mood
	drink.Comment = in.Comment

	if err := d.drinks.Save(ctx, repository.NoTX, drink); err != nil {
		return nil, fmt.Errorf("save drink: %w", err)
	}
	metrics.IncDrinkLogged(drink.DrinkType)
	return drink, nil
}

func (d *drinkUC) List(ctx context.Context, offset, limit int) ([]*model.Drink, error) {
	defer logging.TraceDuration(d.log, "DrinkUC.List")()
	offset, limit = clampPage(offset, limit)
	return d.drinks.List(ctx, repository.NoTX, offset, limit)
}

func (d *drinkUC) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Drink, error) {
	defer logging.TraceDuration(d.log, "DrinkUC.ListByUser")()
	offset, limit = clampPage(offset, limit)
	return d.drinks.ListByUser(ctx, repository.NoTX, userID, offset, limit)
}
