package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrParticipantNameRequired = errors.New("participant name is required")

// Participant: запись ростера. Rating всегда вычисляется движком рейтинга.
type Participant struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Wins          int       `json:"wins" db:"wins"`
	Losses        int       `json:"losses" db:"losses"`
	PointsFor     int       `json:"points_for" db:"points_for"`
	PointsAgainst int       `json:"points_against" db:"points_against"`
	Rating        float64   `json:"rating" db:"rating"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func NewParticipant(id int, name string) (Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Participant{}, ErrParticipantNameRequired
	}
	return Participant{ID: id, Name: name}, nil
}

func (p Participant) PointDifferential() int {
	return p.PointsFor - p.PointsAgainst
}

func (p Participant) MarshalJSON() ([]byte, error) {
	type alias Participant
	return json.Marshal(struct {
		alias
		PointDifferential int `json:"point_differential"`
	}{
		alias:             alias(p),
		PointDifferential: p.PointDifferential(),
	})
}

// RatingHistoryEntry is append-only: rows are never updated.
type RatingHistoryEntry struct {
	ParticipantID int       `json:"participant_id" db:"participant_id"`
	Timestamp     time.Time `json:"timestamp" db:"recorded_at"`
	Rating        float64   `json:"rating" db:"rating"`
}

// RatingsByID индексирует рейтинги ростера по ID участника.
func RatingsByID(roster []Participant) map[int]float64 {
	ratings := make(map[int]float64, len(roster))
	for _, p := range roster {
		ratings[p.ID] = p.Rating
	}
	return ratings
}
