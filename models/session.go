package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

// Session holds the settings of one play session. Its mutable state (courts,
// clocks, bracket) is stored as a JSON document next to it.
type Session struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	Name              string        `json:"name" db:"name"`
	Strategy          Strategy      `json:"strategy" db:"strategy"`
	GameMinutes       int           `json:"game_minutes" db:"game_minutes"`
	TournamentMinutes int           `json:"tournament_minutes" db:"tournament_minutes"`
	AutoRotate        bool          `json:"auto_rotate" db:"auto_rotate"`
	PlayerIDs         []int         `json:"player_ids" db:"player_ids"`
	Status            SessionStatus `json:"status" db:"status"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}
