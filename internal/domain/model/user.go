package model

import (
	"time"

	"alcocontrol/internal/domain"

	"github.com/google/uuid"
)

// User is a domain entity representing a Telegram user in our system.
// Settings is a free-form per-user map; the core treats it opaquely and
// only constrains the value kinds at the boundary (see ValidateSettings).
type User struct {
	ID         string         `json:"id"`
	TelegramID int64          `json:"telegram_id"`
	Username   string         `json:"username,omitempty"`
	FirstName  string         `json:"first_name,omitempty"`
	LastName   string         `json:"last_name,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Settings   map[string]any `json:"settings"`
}

func NewUser(id string, tgID int64, username, firstName, lastName string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:         id,
		TelegramID: tgID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		CreatedAt:  time.Now(),
		Settings:   map[string]any{},
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// ValidateSettings checks that every value is a string, number or boolean.
// JSON decoding yields float64 for all numbers, so that is what we accept.
func ValidateSettings(settings map[string]any) error {
	for _, v := range settings {
		switch v.(type) {
		case string, bool, float64, int, int64:
		default:
			return domain.ErrInvalidArgument
		}
	}
	return nil
}
