// Package courts seats participants on 2v2 courts and rotates them between
// rounds.
package courts

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/Dosada05/rotation-players/models"
)

const (
	PlayersPerCourt = 4
	PlayersPerTeam  = 2
)

// pairOrder is the canonical enumeration of the six 2-of-4 team splits. The
// first split with the smallest rating difference wins ties.
var pairOrder = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

type Allocator struct {
	rng *rand.Rand
}

// NewAllocator uses rng for the uniform strategy. A nil rng falls back to a
// randomly seeded generator.
func NewAllocator(rng *rand.Rand) *Allocator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Allocator{rng: rng}
}

// Allocate splits roster into floor(N/4) full courts plus one rest slot for
// the N mod 4 leftovers. Fewer than four participants yields an empty
// allocation.
func (a *Allocator) Allocate(roster []models.Participant, strategy models.Strategy) []models.CourtSlot {
	if len(roster) < PlayersPerCourt {
		return nil
	}
	switch strategy {
	case models.StrategySkillBalanced:
		return a.skillBalanced(roster)
	default:
		return a.uniform(roster)
	}
}

func (a *Allocator) uniform(roster []models.Participant) []models.CourtSlot {
	ids := make([]int, len(roster))
	for i, p := range roster {
		ids[i] = p.ID
	}
	a.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	fullCourts := len(ids) / PlayersPerCourt
	slots := make([]models.CourtSlot, 0, fullCourts+1)
	for c := 0; c < fullCourts; c++ {
		group := ids[c*PlayersPerCourt : (c+1)*PlayersPerCourt]
		slots = append(slots, models.CourtSlot{
			CourtNumber: c + 1,
			TeamA:       []int{group[0], group[1]},
			TeamB:       []int{group[2], group[3]},
		})
	}
	return appendRest(slots, ids[fullCourts*PlayersPerCourt:])
}

func (a *Allocator) skillBalanced(roster []models.Participant) []models.CourtSlot {
	sorted := make([]models.Participant, len(roster))
	copy(sorted, roster)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })

	ids := make([]int, len(sorted))
	for i, p := range sorted {
		ids[i] = p.ID
	}
	ratings := models.RatingsByID(sorted)

	fullCourts := len(ids) / PlayersPerCourt
	seated := fullCourts * PlayersPerCourt
	slots := make([]models.CourtSlot, 0, fullCourts+1)
	for c, group := range Snake(ids[:seated], fullCourts) {
		teamA, teamB := BalancedSplit(group, ratings)
		slots = append(slots, models.CourtSlot{CourtNumber: c + 1, TeamA: teamA, TeamB: teamB})
	}
	return appendRest(slots, ids[seated:])
}

// Snake deals ids across numCourts buckets walking forward then backward,
// visiting the boundary court twice on every turn: 0,1,…,K-1,K-1,…,1,0,0,1,…
// Only the first 4*numCourts ids are dealt.
func Snake(ids []int, numCourts int) [][]int {
	if numCourts <= 0 {
		return nil
	}
	buckets := make([][]int, numCourts)
	limit := min(len(ids), numCourts*PlayersPerCourt)

	court, direction := 0, 1
	for _, id := range ids[:limit] {
		buckets[court] = append(buckets[court], id)
		switch {
		case court == 0 && direction == -1:
			direction = 1
		case court == numCourts-1 && direction == 1:
			direction = -1
		default:
			court += direction
		}
	}
	return buckets
}

// BalancedSplit picks the 2v2 split of a four-player group minimising the
// difference of summed ratings. Groups of any other size are cut in half.
func BalancedSplit(group []int, ratings map[int]float64) ([]int, []int) {
	if len(group) != PlayersPerCourt {
		half := len(group) / 2
		return append([]int(nil), group[:half]...), append([]int(nil), group[half:]...)
	}

	var best [2]int
	bestDiff := math.Inf(1)
	for _, pair := range pairOrder {
		var sumA, sumB float64
		for i, id := range group {
			if i == pair[0] || i == pair[1] {
				sumA += ratings[id]
			} else {
				sumB += ratings[id]
			}
		}
		if diff := math.Abs(sumA - sumB); diff < bestDiff {
			bestDiff = diff
			best = pair
		}
	}

	teamA := []int{group[best[0]], group[best[1]]}
	teamB := make([]int, 0, PlayersPerTeam)
	for i, id := range group {
		if i != best[0] && i != best[1] {
			teamB = append(teamB, id)
		}
	}
	return teamA, teamB
}

func appendRest(slots []models.CourtSlot, rest []int) []models.CourtSlot {
	if len(rest) == 0 {
		return slots
	}
	return append(slots, models.CourtSlot{
		CourtNumber: len(slots) + 1,
		TeamA:       append([]int(nil), rest...),
		TeamB:       []int{},
		IsRest:      true,
	})
}
