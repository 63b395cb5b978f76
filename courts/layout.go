package courts

import (
	"errors"
	"fmt"
	"math"

	"github.com/Dosada05/rotation-players/models"
)

var (
	ErrInvalidCourtNumber = errors.New("court number must be positive and unique")
	ErrTeamMissing        = errors.New("court needs players in both teams")
	ErrTeamTooLarge       = errors.New("team has more than two players")
	ErrRestTeamB          = errors.New("rest slot must not have a second team")
	ErrDuplicatePlayer    = errors.New("player is seated more than once")
	ErrMultipleRestSlots  = errors.New("only one rest slot is allowed")
)

// ValidateLayout checks a hand-made court layout before it replaces the
// generated one.
func ValidateLayout(slots []models.CourtSlot) error {
	numbers := make(map[int]bool, len(slots))
	seen := make(map[int]int)
	rest := 0

	for _, s := range slots {
		if s.CourtNumber <= 0 || numbers[s.CourtNumber] {
			return fmt.Errorf("%w: %d", ErrInvalidCourtNumber, s.CourtNumber)
		}
		numbers[s.CourtNumber] = true

		if s.IsRest {
			rest++
			if rest > 1 {
				return ErrMultipleRestSlots
			}
			if len(s.TeamB) > 0 {
				return fmt.Errorf("%w: court %d", ErrRestTeamB, s.CourtNumber)
			}
		} else {
			if len(s.TeamA) == 0 || len(s.TeamB) == 0 {
				return fmt.Errorf("%w: court %d", ErrTeamMissing, s.CourtNumber)
			}
			if len(s.TeamA) > PlayersPerTeam || len(s.TeamB) > PlayersPerTeam {
				return fmt.Errorf("%w: court %d", ErrTeamTooLarge, s.CourtNumber)
			}
		}

		for _, id := range s.PlayerIDs() {
			if court, dup := seen[id]; dup {
				return fmt.Errorf("%w: player %d on courts %d and %d", ErrDuplicatePlayer, id, court, s.CourtNumber)
			}
			seen[id] = s.CourtNumber
		}
	}
	return nil
}

// Balance is the absolute difference of summed team ratings on a court; rest
// slots and incomplete courts report 0.
func Balance(slot models.CourtSlot, ratings map[int]float64) float64 {
	if slot.IsRest || len(slot.TeamA) == 0 || len(slot.TeamB) == 0 {
		return 0
	}
	var a, b float64
	for _, id := range slot.TeamA {
		a += ratings[id]
	}
	for _, id := range slot.TeamB {
		b += ratings[id]
	}
	return math.Abs(a - b)
}
