package courts

import "github.com/Dosada05/rotation-players/models"

// Rotate re-seats everyone currently on current (rest slot included) using
// strategy. Ratings come from roster; IDs missing from roster rate 0. Every
// seated ID appears exactly once in the result. With fewer than four seated
// players the input is returned unchanged.
func (a *Allocator) Rotate(current []models.CourtSlot, roster []models.Participant, strategy models.Strategy) []models.CourtSlot {
	ids := models.SeatedIDs(current)
	if len(ids) < PlayersPerCourt {
		return current
	}

	known := make(map[int]models.Participant, len(roster))
	for _, p := range roster {
		known[p.ID] = p
	}
	seated := make([]models.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := known[id]; ok {
			seated = append(seated, p)
		} else {
			seated = append(seated, models.Participant{ID: id})
		}
	}
	return a.Allocate(seated, strategy)
}
