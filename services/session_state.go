package services

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Dosada05/rotation-players/brackets"
	"github.com/Dosada05/rotation-players/clock"
	"github.com/Dosada05/rotation-players/models"
)

// sessionState is the in-memory copy of one session. mu serialises every
// operation on the session; fields are replaced only after the new state was
// persisted.
type sessionState struct {
	mu              sync.Mutex
	session         *models.Session
	round           int
	courts          []models.CourtSlot
	recordedCourts  []int
	gameClock       clock.SessionClock
	tournamentClock clock.SessionClock
	bracket         *brackets.Bracket
	archiveKey      string
}

// stateDocument: JSON-документ, который хранится в sessions.state.
type stateDocument struct {
	Round           int                `json:"round"`
	Courts          []models.CourtSlot `json:"courts"`
	RecordedCourts  []int              `json:"recorded_courts"`
	GameClock       clock.SessionClock `json:"game_clock"`
	TournamentClock clock.SessionClock `json:"tournament_clock"`
	Bracket         *brackets.Bracket  `json:"bracket,omitempty"`
	// ArchiveKey: ключ последнего архива турнира в хранилище.
	ArchiveKey      string             `json:"archive_key,omitempty"`
}

func newStateDocument(s *models.Session) stateDocument {
	return stateDocument{
		Courts:          []models.CourtSlot{},
		RecordedCourts:  []int{},
		GameClock:       *clock.New(s.GameMinutes),
		TournamentClock: *clock.New(s.TournamentMinutes),
	}
}

func decodeStateDocument(s *models.Session, raw json.RawMessage) (stateDocument, error) {
	doc := newStateDocument(s)
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return stateDocument{}, fmt.Errorf("decode state of session %s: %w", s.ID, err)
	}
	return doc, nil
}

func newSessionState(s *models.Session, doc stateDocument) *sessionState {
	st := &sessionState{session: s}
	st.apply(doc)
	return st
}

// document returns a copy that can be changed without touching st.
func (st *sessionState) document() stateDocument {
	return stateDocument{
		Round:           st.round,
		Courts:          st.courts,
		RecordedCourts:  slices.Clone(st.recordedCourts),
		GameClock:       st.gameClock,
		TournamentClock: st.tournamentClock,
		Bracket:         st.bracket,
		ArchiveKey:      st.archiveKey,
	}
}

func (st *sessionState) apply(doc stateDocument) {
	st.round = doc.Round
	st.courts = doc.Courts
	st.recordedCourts = doc.RecordedCourts
	st.gameClock = doc.GameClock
	st.tournamentClock = doc.TournamentClock
	st.bracket = doc.Bracket
	st.archiveKey = doc.ArchiveKey
}

// startRound installs a new court layout and restarts result bookkeeping.
func (doc *stateDocument) startRound(slots []models.CourtSlot) {
	doc.Courts = slots
	doc.Round++
	doc.RecordedCourts = []int{}
	doc.GameClock.Reset()
}

func (doc *stateDocument) clock(name string) (*clock.SessionClock, error) {
	switch name {
	case ClockGame:
		return &doc.GameClock, nil
	case ClockTournament:
		return &doc.TournamentClock, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownClock, name)
	}
}

func isIdle(c clock.SessionClock) bool {
	return c.State == "" || c.State == clock.StateIdle
}

func (st *sessionState) view(now time.Time) *SessionView {
	sess := *st.session
	sess.PlayerIDs = slices.Clone(st.session.PlayerIDs)

	v := &SessionView{
		Session:        &sess,
		Round:          st.round,
		Courts:         slices.Clone(st.courts),
		RecordedCourts: slices.Clone(st.recordedCourts),
		Clocks:         st.clocks(now),
	}
	if v.Courts == nil {
		v.Courts = []models.CourtSlot{}
	}
	if v.RecordedCourts == nil {
		v.RecordedCourts = []int{}
	}
	if st.bracket != nil {
		v.Bracket = st.bracket.Clone()
	}
	return v
}

func (st *sessionState) clocks(now time.Time) ClocksView {
	return ClocksView{
		Game:       st.gameClock.Snapshot(now),
		Tournament: st.tournamentClock.Snapshot(now),
	}
}

type SessionView struct {
	Session        *models.Session    `json:"session"`
	Round          int                `json:"round"`
	Courts         []models.CourtSlot `json:"courts"`
	RecordedCourts []int              `json:"recorded_courts"`
	Clocks         ClocksView         `json:"clocks"`
	Bracket        *brackets.Bracket  `json:"bracket,omitempty"`
}

type ClocksView struct {
	Game       clock.Snapshot `json:"game"`
	Tournament clock.Snapshot `json:"tournament"`
}
