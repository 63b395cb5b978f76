// Package rating derives participant ratings from their win/loss and point
// counters and keeps the append-only rating history.
package rating

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Dosada05/rotation-players/models"
)

// Epsilon is the smallest rating change that produces a history entry.
const Epsilon = 0.001

var (
	ErrRestCourt          = errors.New("rest court has no result")
	ErrTiedScore          = errors.New("scores must not be equal")
	ErrNegativeScore      = errors.New("scores must not be negative")
	ErrUnknownParticipant = errors.New("participant is not in the roster")
)

// Compute returns (wins - losses) + point_differential / 100.
func Compute(p models.Participant) float64 {
	return float64(p.Wins-p.Losses) + float64(p.PointDifferential())/100
}

// Recompute refreshes every rating in roster and returns the updated copy
// together with the history entries it appended to history. A participant gets
// an entry only when its rating moved more than Epsilon away from the last
// stored value.
func Recompute(roster []models.Participant, history *History, now time.Time) ([]models.Participant, []models.RatingHistoryEntry) {
	if len(roster) == 0 {
		return roster, nil
	}

	updated := make([]models.Participant, len(roster))
	var appended []models.RatingHistoryEntry
	for i, p := range roster {
		p.Rating = Compute(p)
		updated[i] = p

		if last, ok := history.Last(p.ID); ok && math.Abs(last.Rating-p.Rating) <= Epsilon {
			continue
		}
		entry := models.RatingHistoryEntry{ParticipantID: p.ID, Timestamp: now, Rating: p.Rating}
		history.Append(entry)
		appended = append(appended, entry)
	}
	return updated, appended
}

// ApplyCourtResult books one court's final score onto the roster counters.
// Ratings are not touched; run Recompute afterwards.
func ApplyCourtResult(roster []models.Participant, slot models.CourtSlot, scoreA, scoreB int) ([]models.Participant, error) {
	if slot.IsRest {
		return roster, ErrRestCourt
	}
	if scoreA < 0 || scoreB < 0 {
		return roster, ErrNegativeScore
	}
	if scoreA == scoreB {
		return roster, fmt.Errorf("%w: court %d finished %d:%d", ErrTiedScore, slot.CourtNumber, scoreA, scoreB)
	}

	index := make(map[int]int, len(roster))
	for i, p := range roster {
		index[p.ID] = i
	}
	for _, id := range slot.PlayerIDs() {
		if _, ok := index[id]; !ok {
			return roster, fmt.Errorf("%w: %d", ErrUnknownParticipant, id)
		}
	}

	updated := make([]models.Participant, len(roster))
	copy(updated, roster)

	book := func(team []int, own, other int) {
		for _, id := range team {
			p := &updated[index[id]]
			if own > other {
				p.Wins++
			} else {
				p.Losses++
			}
			p.PointsFor += own
			p.PointsAgainst += other
		}
	}
	book(slot.TeamA, scoreA, scoreB)
	book(slot.TeamB, scoreB, scoreA)

	return updated, nil
}
