package model

import (
	"time"

	"alcocontrol/internal/domain"

	"github.com/google/uuid"
)

// Drink is a single consumption event. Volume is milliliters,
// AlcoholContent is percent by volume. Rows are immutable once stored.
type Drink struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	DrinkType      string    `json:"drink_type"`
	Volume         float64   `json:"volume"`
	AlcoholContent float64   `json:"alcohol_content"`
	Price          *float64  `json:"price,omitempty"`
	Location       string    `json:"location,omitempty"`
	Mood           string    `json:"mood,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewDrink(id, userID, drinkType string, volume, alcoholContent float64) (*Drink, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if userID == "" || drinkType == "" {
		return nil, domain.ErrInvalidArgument
	}
	if volume <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if alcoholContent < 0 || alcoholContent > 100 {
		return nil, domain.ErrInvalidArgument
	}
	return &Drink{
		ID:             id,
		UserID:         userID,
		DrinkType:      drinkType,
		Volume:         volume,
		AlcoholContent: alcoholContent,
		CreatedAt:      time.Now(),
	}, nil
}

// PureAlcohol returns the pure-alcohol-equivalent volume of this drink,
// in the same unit as Volume.
func (d *Drink) PureAlcohol() float64 {
	return d.Volume * d.AlcoholContent / 100
}
