package brackets

import (
	"context"
	"fmt"
	"math/rand/v2"
)

type SingleEliminationGenerator struct {
	rng *rand.Rand
}

// NewSingleEliminationGenerator seeds the draw from rng; nil means a random
// seed.
func NewSingleEliminationGenerator(rng *rand.Rand) BracketGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SingleEliminationGenerator{rng: rng}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// Build draws participantIDs into 2^ceil(log2 N) slots. Byes sit in the
// trailing round-0 matches, one per match, and resolve immediately; their
// winners are already seated in round 1. Every later match is allocated up
// front with both players unset.
func (g *SingleEliminationGenerator) Build(ctx context.Context, participantIDs []int) (*Bracket, error) {
	n := len(participantIDs)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	seen := make(map[int]bool, n)
	for _, id := range participantIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateParticipant, id)
		}
		seen[id] = true
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shuffled := make([]int, n)
	copy(shuffled, participantIDs)
	g.rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	numRounds := 0
	for 1<<numRounds < n {
		numRounds++
	}
	slots := 1 << numRounds
	openingMatches := slots / 2
	fullMatches := openingMatches - (slots - n)

	b := &Bracket{
		Status:         BracketSetup,
		ParticipantIDs: append([]int(nil), participantIDs...),
		Rounds:         make([]BracketRound, numRounds),
		Matches:        make([]BracketMatch, 0, slots-1),
	}
	for r := 0; r < numRounds; r++ {
		name := fmt.Sprintf("Round %d", r+1)
		if r == numRounds-1 {
			name = "Final"
		}
		b.Rounds[r] = BracketRound{Index: r, Name: name, Status: MatchPending}
		for pos := 0; pos < slots>>(r+1); pos++ {
			id := len(b.Matches) + 1
			b.Matches = append(b.Matches, BracketMatch{ID: id, Round: r, Position: pos, Status: MatchPending})
			b.Rounds[r].MatchIDs = append(b.Rounds[r].MatchIDs, id)
		}
	}

	next := 0
	for pos, id := range b.Rounds[0].MatchIDs {
		m := &b.Matches[id-1]
		p1 := shuffled[next]
		m.Player1 = &p1
		next++
		if pos < fullMatches {
			p2 := shuffled[next]
			m.Player2 = &p2
			next++
			continue
		}
		m.IsBye = true
		m.Winner = cloneID(m.Player1)
		m.Status = MatchCompleted
		b.seatWinner(m)
	}

	b.Status = BracketActive
	b.CurrentRound = 0
	b.activateRound(0)
	return b, nil
}
