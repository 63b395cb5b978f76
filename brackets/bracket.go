package brackets

import (
	"errors"
	"fmt"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchActive    MatchStatus = "active"
	MatchCompleted MatchStatus = "completed"
)

type RoundStatus = MatchStatus

type BracketStatus string

const (
	BracketSetup     BracketStatus = "setup"
	BracketActive    BracketStatus = "active"
	BracketCompleted BracketStatus = "completed"
)

var (
	ErrNotEnoughParticipants = errors.New("not enough participants to build a bracket (minimum 2)")
	ErrDuplicateParticipant  = errors.New("participant listed more than once")
	ErrMatchNotFound         = errors.New("bracket match not found")
	ErrMatchNotPlayable      = errors.New("match is not ready to be played")
	ErrTiedScore             = errors.New("match score must be decisive")
	ErrNegativeScore         = errors.New("match score must not be negative")
	ErrBracketCompleted      = errors.New("bracket is already completed")
)

type Score struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

type BracketMatch struct {
	ID       int         `json:"id"`
	Round    int         `json:"round"`
	Position int         `json:"position"`
	Player1  *int        `json:"player1"`
	Player2  *int        `json:"player2"`
	Winner   *int        `json:"winner"`
	Score    Score       `json:"score"`
	Status   MatchStatus `json:"status"`
	IsBye    bool        `json:"is_bye"`
}

func (m *BracketMatch) hasBothPlayers() bool {
	return m.Player1 != nil && m.Player2 != nil
}

func (m *BracketMatch) playable() bool {
	return m.Status == MatchActive || (m.Status == MatchPending && m.hasBothPlayers())
}

type BracketRound struct {
	Index    int         `json:"index"`
	Name     string      `json:"name"`
	MatchIDs []int       `json:"match_ids"`
	Status   RoundStatus `json:"status"`
}

// Bracket is a single-elimination tournament. Its status only moves forward:
// setup -> active -> completed.
type Bracket struct {
	Status         BracketStatus  `json:"status"`
	ParticipantIDs []int          `json:"participant_ids"`
	Rounds         []BracketRound `json:"rounds"`
	Matches        []BracketMatch `json:"matches"`
	CurrentRound   int            `json:"current_round"`
	Winner         *int           `json:"winner"`
	RunnerUp       *int           `json:"runner_up"`
}

func (b *Bracket) TotalRounds() int {
	return len(b.Rounds)
}

func (b *Bracket) Match(id int) (*BracketMatch, bool) {
	if id < 1 || id > len(b.Matches) {
		return nil, false
	}
	return &b.Matches[id-1], true
}

// ActiveMatches lists matches that currently accept a result.
func (b *Bracket) ActiveMatches() []BracketMatch {
	var out []BracketMatch
	for _, m := range b.Matches {
		if m.Status == MatchActive {
			out = append(out, m)
		}
	}
	return out
}

// Advance records a decisive score for matchID, moves the winner into the
// next round and activates follow-up rounds once the current one is done.
// On error the bracket is left untouched.
func (b *Bracket) Advance(matchID, score1, score2 int) error {
	if b.Status == BracketCompleted {
		return ErrBracketCompleted
	}
	m, ok := b.Match(matchID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	if !m.playable() {
		return fmt.Errorf("%w: match %d is %s", ErrMatchNotPlayable, matchID, m.Status)
	}
	if score1 < 0 || score2 < 0 {
		return ErrNegativeScore
	}
	if score1 == score2 {
		return fmt.Errorf("%w: match %d finished %d:%d", ErrTiedScore, matchID, score1, score2)
	}

	m.Score = Score{Player1: score1, Player2: score2}
	if score1 > score2 {
		m.Winner = m.Player1
	} else {
		m.Winner = m.Player2
	}
	m.Status = MatchCompleted
	if next := b.seatWinner(m); next != nil && next.hasBothPlayers() && next.Status == MatchPending {
		next.Status = MatchActive
	}
	b.settleRounds()
	return nil
}

// seatWinner copies m's winner into the next round: even positions feed
// Player1, odd positions Player2. It returns the destination match, or nil
// after the final.
func (b *Bracket) seatWinner(m *BracketMatch) *BracketMatch {
	if m.Round+1 >= len(b.Rounds) || m.Winner == nil {
		return nil
	}
	next := &b.Matches[b.Rounds[m.Round+1].MatchIDs[m.Position/2]-1]
	winner := *m.Winner
	if m.Position%2 == 0 {
		next.Player1 = &winner
	} else {
		next.Player2 = &winner
	}
	return next
}

func (b *Bracket) roundDone(r int) bool {
	for _, id := range b.Rounds[r].MatchIDs {
		if b.Matches[id-1].Status != MatchCompleted {
			return false
		}
	}
	return true
}

func (b *Bracket) settleRounds() {
	for b.Status == BracketActive && b.roundDone(b.CurrentRound) {
		b.Rounds[b.CurrentRound].Status = MatchCompleted

		if b.CurrentRound == len(b.Rounds)-1 {
			b.complete()
			return
		}

		b.CurrentRound++
		b.activateRound(b.CurrentRound)
	}
}

func (b *Bracket) activateRound(r int) {
	b.Rounds[r].Status = MatchActive
	for _, id := range b.Rounds[r].MatchIDs {
		m := &b.Matches[id-1]
		if m.Status == MatchPending && m.hasBothPlayers() {
			m.Status = MatchActive
		}
	}
}

func (b *Bracket) complete() {
	final := b.Matches[b.Rounds[len(b.Rounds)-1].MatchIDs[0]-1]
	winner := *final.Winner
	b.Winner = &winner

	loser := final.Player1
	if loser != nil && *loser == winner {
		loser = final.Player2
	}
	if loser != nil {
		runnerUp := *loser
		b.RunnerUp = &runnerUp
	}
	b.Status = BracketCompleted
}

// Clone returns a deep copy safe to hand to other goroutines.
func (b *Bracket) Clone() *Bracket {
	if b == nil {
		return nil
	}
	out := *b
	out.ParticipantIDs = append([]int(nil), b.ParticipantIDs...)
	out.Rounds = make([]BracketRound, len(b.Rounds))
	for i, r := range b.Rounds {
		r.MatchIDs = append([]int(nil), r.MatchIDs...)
		out.Rounds[i] = r
	}
	out.Matches = make([]BracketMatch, len(b.Matches))
	for i, m := range b.Matches {
		m.Player1, m.Player2, m.Winner = cloneID(m.Player1), cloneID(m.Player2), cloneID(m.Winner)
		out.Matches[i] = m
	}
	out.Winner, out.RunnerUp = cloneID(b.Winner), cloneID(b.RunnerUp)
	return &out
}

func cloneID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
