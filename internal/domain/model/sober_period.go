package model

import (
	"time"

	"alcocontrol/internal/domain"

	"github.com/google/uuid"
)

// SoberPeriod is a span of abstinence. A period starts active and is closed
// exactly once; EndTime is set iff the period is no longer active.
// At most one active period may exist per user.
type SoberPeriod struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	IsActive  bool       `json:"is_active"`
}

func NewSoberPeriod(id, userID string) (*SoberPeriod, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &SoberPeriod{
		ID:        id,
		UserID:    userID,
		StartTime: time.Now(),
		IsActive:  true,
	}, nil
}

// Close transitions the period to its terminal state. Closing an already
// closed period is a no-op; the original end time is preserved.
func (p *SoberPeriod) Close(now time.Time) {
	if !p.IsActive {
		return
	}
	p.IsActive = false
	end := now
	p.EndTime = &end
}
