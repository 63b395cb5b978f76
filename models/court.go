package models

import (
	"errors"
	"fmt"
	"time"
)

type Strategy string

const (
	StrategyUniform       Strategy = "uniform"
	StrategySkillBalanced Strategy = "skill_balanced"
)

var ErrInvalidStrategy = errors.New("invalid allocation strategy")

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyUniform, StrategySkillBalanced:
		return Strategy(s), nil
	case "":
		return StrategyUniform, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// CourtSlot is one court of a round. A rest slot keeps every resting player
// in TeamA and leaves TeamB empty.
type CourtSlot struct {
	CourtNumber int   `json:"court_number"`
	TeamA       []int `json:"team_a"`
	TeamB       []int `json:"team_b"`
	IsRest      bool  `json:"is_rest"`
}

func (c CourtSlot) PlayerIDs() []int {
	ids := make([]int, 0, len(c.TeamA)+len(c.TeamB))
	ids = append(ids, c.TeamA...)
	return append(ids, c.TeamB...)
}

// SeatedIDs returns every participant ID of a round in slot order.
func SeatedIDs(slots []CourtSlot) []int {
	var ids []int
	for _, s := range slots {
		ids = append(ids, s.PlayerIDs()...)
	}
	return ids
}

// CourtResult is the final score entered for one non-rest court.
type CourtResult struct {
	CourtNumber int `json:"court_number"`
	ScoreA      int `json:"score_a"`
	ScoreB      int `json:"score_b"`
}

// GameResult: строка истории игр.
type GameResult struct {
	ID          int64     `json:"id" db:"id"`
	SessionID   string    `json:"session_id" db:"session_id"`
	Round       int       `json:"round" db:"round"`
	CourtNumber int       `json:"court_number" db:"court_number"`
	TeamA       []int     `json:"team_a" db:"team_a"`
	TeamB       []int     `json:"team_b" db:"team_b"`
	ScoreA      int       `json:"score_a" db:"score_a"`
	ScoreB      int       `json:"score_b" db:"score_b"`
	RecordedAt  time.Time `json:"recorded_at" db:"recorded_at"`
}
