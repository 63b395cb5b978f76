package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/rotation-players/brackets"
	"github.com/Dosada05/rotation-players/courts"
	"github.com/Dosada05/rotation-players/models"
	"github.com/Dosada05/rotation-players/rating"
	"github.com/Dosada05/rotation-players/repositories"
	"github.com/Dosada05/rotation-players/storage"
	"github.com/Dosada05/rotation-players/ws"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type SessionService interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*SessionView, error)
	GetSession(ctx context.Context, id uuid.UUID) (*SessionView, error)
	ListSessions(ctx context.Context) ([]*models.Session, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, input UpdateSessionInput) (*SessionView, error)

	AllocateCourts(ctx context.Context, id uuid.UUID) (*SessionView, error)
	// RotateCourts завершает раунд: новые корты, сброс игровых часов, раунд +1.
	RotateCourts(ctx context.Context, id uuid.UUID) (*SessionView, error)
	SetCourts(ctx context.Context, id uuid.UUID, slots []models.CourtSlot) (*SessionView, error)
	RecordResults(ctx context.Context, id uuid.UUID, results []models.CourtResult) (*RecordResultsOutput, error)
	ListResults(ctx context.Context, id uuid.UUID) ([]*models.GameResult, error)

	ClockCommand(ctx context.Context, id uuid.UUID, clockName, command string) (*ClocksView, error)
	ClockStatus(ctx context.Context, id uuid.UUID) (*ClocksView, error)

	CreateBracket(ctx context.Context, id uuid.UUID, participantIDs []int) (*brackets.Bracket, error)
	GetBracket(ctx context.Context, id uuid.UUID) (*brackets.Bracket, error)
	AdvanceMatch(ctx context.Context, id uuid.UUID, matchID, score1, score2 int) (*brackets.Bracket, error)

	// PollClocks сбрасывает истёкшие часы открытых сессий; при первом вызове
	// поднимает из БД сессии, сохранённые до рестарта.
	PollClocks(ctx context.Context, now time.Time) error
}

// Notifier delivers session events to subscribers of a room.
type Notifier interface {
	Publish(roomID, eventType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, string, interface{}) {}

const (
	ClockGame       = "game"
	ClockTournament = "tournament"

	ClockStart  = "start"
	ClockPause  = "pause"
	ClockResume = "resume"
	ClockReset  = "reset"
)

// SessionDefaults are applied when a new session leaves a duration unset.
type SessionDefaults struct {
	GameMinutes       int
	TournamentMinutes int
}

type CreateSessionInput struct {
	Name              string `json:"name"`
	Strategy          string `json:"strategy"`
	GameMinutes       int    `json:"game_minutes"`
	TournamentMinutes int    `json:"tournament_minutes"`
	AutoRotate        bool   `json:"auto_rotate"`
	PlayerIDs         []int  `json:"player_ids"`
}

type UpdateSessionInput struct {
	Name              *string `json:"name"`
	Strategy          *string `json:"strategy"`
	GameMinutes       *int    `json:"game_minutes"`
	TournamentMinutes *int    `json:"tournament_minutes"`
	AutoRotate        *bool   `json:"auto_rotate"`
	PlayerIDs         *[]int  `json:"player_ids"`
	Status            *string `json:"status"`
}

type RecordResultsOutput struct {
	Round        int                  `json:"round"`
	Results      []*models.GameResult `json:"results"`
	Participants []models.Participant `json:"participants"`
}

type TournamentArchive struct {
	SessionID    string               `json:"session_id"`
	SessionName  string               `json:"session_name"`
	CompletedAt  time.Time            `json:"completed_at"`
	Winner       *int                 `json:"winner"`
	RunnerUp     *int                 `json:"runner_up"`
	Participants []models.Participant `json:"participants"`
	Bracket      *brackets.Bracket    `json:"bracket"`
}

type sessionService struct {
	sessionRepo     repositories.SessionRepository
	participantRepo repositories.ParticipantRepository
	historyRepo     repositories.RatingHistoryRepository
	resultRepo      repositories.GameResultRepository
	txRunner        repositories.TxRunner
	notifier        Notifier
	uploader        storage.FileUploader
	defaults        SessionDefaults
	logger          *slog.Logger

	allocator *courts.Allocator
	generator brackets.BracketGenerator
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionState
	restored bool // открытые сессии из БД уже подняты в реестр
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	participantRepo repositories.ParticipantRepository,
	historyRepo repositories.RatingHistoryRepository,
	resultRepo repositories.GameResultRepository,
	txRunner repositories.TxRunner,
	notifier Notifier,
	uploader storage.FileUploader, // nil, если архивирование не настроено
	defaults SessionDefaults,
	logger *slog.Logger,
) SessionService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &sessionService{
		sessionRepo:     sessionRepo,
		participantRepo: participantRepo,
		historyRepo:     historyRepo,
		resultRepo:      resultRepo,
		txRunner:        txRunner,
		notifier:        notifier,
		uploader:        uploader,
		defaults:        defaults,
		logger:          logger,
		allocator:       courts.NewAllocator(nil),
		generator:       brackets.NewSingleEliminationGenerator(nil),
		now:             time.Now,
		sessions:        make(map[uuid.UUID]*sessionState),
	}
}

// acquire returns the locked state of a session, loading it on first use.
// The caller must unlock st.mu.
func (s *sessionService) acquire(ctx context.Context, id uuid.UUID) (*sessionState, error) {
	s.mu.RLock()
	st, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		loaded, err := s.loadSession(ctx, id)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if existing, found := s.sessions[id]; found {
			st = existing
		} else {
			s.sessions[id] = loaded
			st = loaded
		}
		s.mu.Unlock()
	}

	st.mu.Lock()
	return st, nil
}

func (s *sessionService) loadSession(ctx context.Context, id uuid.UUID) (*sessionState, error) {
	var (
		session *models.Session
		raw     json.RawMessage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		session, err = s.sessionRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		raw, err = s.sessionRepo.LoadState(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "load session")
	}

	doc, err := decodeStateDocument(session, raw)
	if err != nil {
		return nil, err
	}
	return newSessionState(session, doc), nil
}

func (s *sessionService) persist(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, doc stateDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := s.sessionRepo.SaveState(ctx, exec, id, raw); err != nil {
		return handleRepositoryError(err, "save session state")
	}
	return nil
}

func (s *sessionService) publish(id uuid.UUID, eventType string, payload interface{}) {
	s.notifier.Publish(id.String(), eventType, payload)
}

// loadRoster returns the stored participants among ids in id order and the IDs
// that no longer exist.
func (s *sessionService) loadRoster(ctx context.Context, ids []int) ([]models.Participant, []int, error) {
	stored, err := s.participantRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, handleRepositoryError(err, "load roster")
	}
	return dereferenceParticipants(stored), missingIDs(ids, stored), nil
}

func (s *sessionService) requireParticipants(ctx context.Context, ids []int) error {
	if err := checkUniqueIDs(ids); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, missing, err := s.loadRoster(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrParticipantNotFound, missing)
	}
	return nil
}

func requireOpen(st *sessionState) error {
	if st.session.Status == models.SessionStatusClosed {
		return ErrSessionClosed
	}
	return nil
}

func validateSessionSettings(sess *models.Session) error {
	sess.Name = strings.TrimSpace(sess.Name)
	if sess.Name == "" {
		return validationError("session name is required")
	}
	if sess.GameMinutes <= 0 {
		return validationError("game_minutes must be positive, got %d", sess.GameMinutes)
	}
	if sess.TournamentMinutes <= 0 {
		return validationError("tournament_minutes must be positive, got %d", sess.TournamentMinutes)
	}
	return nil
}

func (s *sessionService) CreateSession(ctx context.Context, input CreateSessionInput) (*SessionView, error) {
	strategy, err := models.ParseStrategy(input.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	sess := &models.Session{
		ID:                uuid.New(),
		Name:              input.Name,
		Strategy:          strategy,
		GameMinutes:       input.GameMinutes,
		TournamentMinutes: input.TournamentMinutes,
		AutoRotate:        input.AutoRotate,
		PlayerIDs:         slices.Clone(input.PlayerIDs),
		Status:            models.SessionStatusOpen,
	}
	if sess.GameMinutes == 0 {
		sess.GameMinutes = s.defaults.GameMinutes
	}
	if sess.TournamentMinutes == 0 {
		sess.TournamentMinutes = s.defaults.TournamentMinutes
	}
	if sess.PlayerIDs == nil {
		sess.PlayerIDs = []int{}
	}
	if err := validateSessionSettings(sess); err != nil {
		return nil, err
	}
	if err := s.requireParticipants(ctx, sess.PlayerIDs); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, handleRepositoryError(err, "create session")
	}
	doc := newStateDocument(sess)
	if err := s.persist(ctx, nil, sess.ID, doc); err != nil {
		return nil, err
	}

	st := newSessionState(sess, doc)
	s.mu.Lock()
	s.sessions[sess.ID] = st
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session created", slog.String("session_id", sess.ID.String()), slog.Int("players", len(sess.PlayerIDs)))
	return st.view(s.now()), nil
}

func (s *sessionService) GetSession(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	return st.view(s.now()), nil
}

func (s *sessionService) ListSessions(ctx context.Context) ([]*models.Session, error) {
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list sessions")
	}
	return sessions, nil
}

func (s *sessionService) UpdateSettings(ctx context.Context, id uuid.UUID, input UpdateSessionInput) (*SessionView, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()

	updated := *st.session
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Strategy != nil {
		strategy, err := models.ParseStrategy(*input.Strategy)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		updated.Strategy = strategy
	}
	if input.GameMinutes != nil {
		updated.GameMinutes = *input.GameMinutes
	}
	if input.TournamentMinutes != nil {
		updated.TournamentMinutes = *input.TournamentMinutes
	}
	if input.AutoRotate != nil {
		updated.AutoRotate = *input.AutoRotate
	}
	if input.PlayerIDs != nil {
		updated.PlayerIDs = slices.Clone(*input.PlayerIDs)
		if updated.PlayerIDs == nil {
			updated.PlayerIDs = []int{}
		}
		if err := s.requireParticipants(ctx, updated.PlayerIDs); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		switch status := models.SessionStatus(*input.Status); status {
		case models.SessionStatusOpen, models.SessionStatusClosed:
			updated.Status = status
		default:
			return nil, validationError("unknown session status %q", *input.Status)
		}
	}
	if err := validateSessionSettings(&updated); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Update(ctx, &updated); err != nil {
		return nil, handleRepositoryError(err, "update session")
	}
	st.session = &updated

	// Idle clocks pick up the new durations right away.
	doc := st.document()
	if isIdle(doc.GameClock) {
		doc.GameClock.DurationMinutes = updated.GameMinutes
	}
	if isIdle(doc.TournamentClock) {
		doc.TournamentClock.DurationMinutes = updated.TournamentMinutes
	}
	if err := s.persist(ctx, nil, id, doc); err != nil {
		return nil, err
	}
	st.apply(doc)

	return st.view(s.now()), nil
}

func (s *sessionService) AllocateCourts(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	if err := requireOpen(st); err != nil {
		return nil, err
	}

	roster, missing, err := s.loadRoster(ctx, st.session.PlayerIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		s.logger.WarnContext(ctx, "selected players no longer exist", slog.String("session_id", id.String()), slog.Any("missing", missing))
	}
	if len(roster) < courts.PlayersPerCourt {
		return nil, fmt.Errorf("%w: %d selected, %d required", ErrNotEnoughPlayers, len(roster), courts.PlayersPerCourt)
	}

	doc := st.document()
	doc.startRound(s.allocator.Allocate(roster, st.session.Strategy))
	return s.commitCourts(ctx, st, doc)
}

func (s *sessionService) RotateCourts(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	if err := requireOpen(st); err != nil {
		return nil, err
	}

	doc := st.document()
	if err := s.rotate(ctx, st, &doc); err != nil {
		return nil, err
	}
	return s.commitCourts(ctx, st, doc)
}

// rotate re-seats the players of the current round using fresh ratings.
func (s *sessionService) rotate(ctx context.Context, st *sessionState, doc *stateDocument) error {
	if len(doc.Courts) == 0 {
		return ErrCourtsNotAllocated
	}
	roster, _, err := s.loadRoster(ctx, models.SeatedIDs(doc.Courts))
	if err != nil {
		return err
	}
	doc.startRound(s.allocator.Rotate(doc.Courts, roster, st.session.Strategy))
	return nil
}

func (s *sessionService) SetCourts(ctx context.Context, id uuid.UUID, slots []models.CourtSlot) (*SessionView, error) {
	if err := courts.ValidateLayout(slots); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	if err := requireOpen(st); err != nil {
		return nil, err
	}

	_, missing, err := s.loadRoster(ctx, models.SeatedIDs(slots))
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrParticipantNotFound, missing)
	}

	doc := st.document()
	doc.Courts = slices.Clone(slots)
	doc.RecordedCourts = []int{}
	if doc.Round == 0 {
		doc.Round = 1
	}
	return s.commitCourts(ctx, st, doc)
}

func (s *sessionService) commitCourts(ctx context.Context, st *sessionState, doc stateDocument) (*SessionView, error) {
	id := st.session.ID
	if err := s.persist(ctx, nil, id, doc); err != nil {
		return nil, err
	}
	st.apply(doc)

	s.logger.InfoContext(ctx, "courts updated", slog.String("session_id", id.String()), slog.Int("round", doc.Round), slog.Int("slots", len(doc.Courts)))
	view := st.view(s.now())
	s.publish(id, ws.EventCourtsUpdated, map[string]interface{}{
		"round":  view.Round,
		"courts": view.Courts,
	})
	s.publish(id, ws.EventClockUpdated, map[string]interface{}{
		"clock":    ClockGame,
		"snapshot": view.Clocks.Game,
	})
	return view, nil
}

func (s *sessionService) RecordResults(ctx context.Context, id uuid.UUID, results []models.CourtResult) (*RecordResultsOutput, error) {
	if len(results) == 0 {
		return nil, validationError("at least one court result is required")
	}

	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	if err := requireOpen(st); err != nil {
		return nil, err
	}

	doc := st.document()
	if len(doc.Courts) == 0 {
		return nil, ErrCourtsNotAllocated
	}

	slotByNumber := make(map[int]models.CourtSlot, len(doc.Courts))
	for _, slot := range doc.Courts {
		slotByNumber[slot.CourtNumber] = slot
	}
	played := make([]models.CourtSlot, 0, len(results))
	inRequest := make(map[int]bool, len(results))
	for _, r := range results {
		slot, ok := slotByNumber[r.CourtNumber]
		switch {
		case !ok:
			return nil, validationError("court %d is not in play", r.CourtNumber)
		case slot.IsRest:
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, rating.ErrRestCourt)
		case inRequest[r.CourtNumber]:
			return nil, validationError("court %d listed twice", r.CourtNumber)
		case slices.Contains(doc.RecordedCourts, r.CourtNumber):
			return nil, fmt.Errorf("%w: court %d", ErrResultsAlreadyRecorded, r.CourtNumber)
		}
		inRequest[r.CourtNumber] = true
		played = append(played, slot)
	}

	ids := models.SeatedIDs(played)
	roster, missing, err := s.loadRoster(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrParticipantNotFound, missing)
	}

	for i, r := range results {
		roster, err = rating.ApplyCourtResult(roster, played[i], r.ScoreA, r.ScoreB)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
	}

	history, err := latestHistory(ctx, s.historyRepo)
	if err != nil {
		return nil, err
	}
	now := s.now()
	updated, appended := rating.Recompute(roster, history, now)

	gameResults := make([]*models.GameResult, len(results))
	for i, r := range results {
		gameResults[i] = &models.GameResult{
			SessionID:   id.String(),
			Round:       doc.Round,
			CourtNumber: r.CourtNumber,
			TeamA:       slices.Clone(played[i].TeamA),
			TeamB:       slices.Clone(played[i].TeamB),
			ScoreA:      r.ScoreA,
			ScoreB:      r.ScoreB,
			RecordedAt:  now,
		}
		doc.RecordedCourts = append(doc.RecordedCourts, r.CourtNumber)
	}
	slices.Sort(doc.RecordedCourts)

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for i := range updated {
			if err := s.participantRepo.UpdateStats(ctx, exec, &updated[i]); err != nil {
				return err
			}
		}
		if err := s.historyRepo.Append(ctx, exec, appended); err != nil {
			return err
		}
		for _, gr := range gameResults {
			if err := s.resultRepo.Create(ctx, exec, gr); err != nil {
				return err
			}
		}
		return s.persist(ctx, exec, id, doc)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "record results")
	}
	st.apply(doc)

	out := &RecordResultsOutput{Round: doc.Round, Results: gameResults, Participants: updated}
	s.logger.InfoContext(ctx, "results recorded", slog.String("session_id", id.String()), slog.Int("round", doc.Round), slog.Int("courts", len(results)))
	s.publish(id, ws.EventResultsRecorded, out)
	return out, nil
}

func (s *sessionService) ListResults(ctx context.Context, id uuid.UUID) ([]*models.GameResult, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	st.mu.Unlock()

	results, err := s.resultRepo.ListBySession(ctx, id.String())
	if err != nil {
		return nil, handleRepositoryError(err, "list results")
	}
	return results, nil
}

func (s *sessionService) ClockCommand(ctx context.Context, id uuid.UUID, clockName, command string) (*ClocksView, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	if err := requireOpen(st); err != nil {
		return nil, err
	}

	doc := st.document()
	c, err := doc.clock(clockName)
	if err != nil {
		return nil, err
	}
	minutes := st.session.GameMinutes
	if clockName == ClockTournament {
		minutes = st.session.TournamentMinutes
	}

	now := s.now()
	switch command {
	case ClockStart:
		c.Start(minutes, now)
	case ClockPause:
		if !c.Pause(now) {
			return nil, fmt.Errorf("%w: %s clock is not running", ErrInvalidTransition, clockName)
		}
	case ClockResume:
		if !c.Resume(now) {
			return nil, fmt.Errorf("%w: %s clock is not paused", ErrInvalidTransition, clockName)
		}
	case ClockReset:
		c.Reset()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownClockCommand, command)
	}

	if err := s.persist(ctx, nil, id, doc); err != nil {
		return nil, err
	}
	st.apply(doc)

	view := st.clocks(now)
	s.publish(id, ws.EventClockUpdated, map[string]interface{}{
		"clock":    clockName,
		"snapshot": c.Snapshot(now),
	})
	return &view, nil
}

func (s *sessionService) ClockStatus(ctx context.Context, id uuid.UUID) (*ClocksView, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	view := st.clocks(s.now())
	return &view, nil
}

func (s *sessionService) PollClocks(ctx context.Context, now time.Time) error {
	var errs []error
	if err := s.restoreOpenSessions(ctx); err != nil {
		errs = append(errs, err)
	}

	s.mu.RLock()
	states := make([]*sessionState, 0, len(s.sessions))
	for _, st := range s.sessions {
		states = append(states, st)
	}
	s.mu.RUnlock()

	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.pollSession(ctx, st, now); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// restoreOpenSessions загружает открытые сессии, сохранённые до рестарта, чтобы
// их часы истекали без обращения клиентов. Список читается один раз: новые
// сессии регистрирует CreateSession.
func (s *sessionService) restoreOpenSessions(ctx context.Context) error {
	s.mu.RLock()
	done := s.restored
	s.mu.RUnlock()
	if done {
		return nil
	}

	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return handleRepositoryError(err, "restore sessions")
	}

	var errs []error
	for _, sess := range sessions {
		if sess.Status != models.SessionStatusOpen {
			continue
		}
		st, err := s.acquire(ctx, sess.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to restore session", slog.String("session_id", sess.ID.String()), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("restore session %s: %w", sess.ID, err))
			continue
		}
		st.mu.Unlock()
	}

	s.mu.Lock()
	s.restored = true
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "open sessions restored", slog.Int("count", len(sessions)))
	return errors.Join(errs...)
}

func (s *sessionService) pollSession(ctx context.Context, st *sessionState, now time.Time) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	id := st.session.ID
	doc := st.document()
	var expired []string
	if doc.GameClock.Expired(now) {
		doc.GameClock.Reset()
		expired = append(expired, ClockGame)
	}
	if doc.TournamentClock.Expired(now) {
		doc.TournamentClock.Reset()
		expired = append(expired, ClockTournament)
	}
	if len(expired) == 0 {
		return nil
	}

	rotated := false
	if slices.Contains(expired, ClockGame) && st.session.AutoRotate && st.session.Status == models.SessionStatusOpen && len(doc.Courts) > 0 {
		if err := s.rotate(ctx, st, &doc); err != nil {
			s.logger.ErrorContext(ctx, "auto rotation failed", slog.String("session_id", id.String()), slog.Any("error", err))
		} else {
			rotated = true
		}
	}

	if err := s.persist(ctx, nil, id, doc); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}
	st.apply(doc)

	for _, name := range expired {
		s.logger.InfoContext(ctx, "clock expired", slog.String("session_id", id.String()), slog.String("clock", name))
		s.publish(id, ws.EventClockExpired, map[string]interface{}{"clock": name})
	}
	if rotated {
		s.publish(id, ws.EventCourtsUpdated, map[string]interface{}{
			"round":  doc.Round,
			"courts": slices.Clone(doc.Courts),
		})
	}
	return nil
}
