package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Dosada05/rotation-players/brackets"
	"github.com/Dosada05/rotation-players/storage"
	"github.com/Dosada05/rotation-players/ws"
	"github.com/google/uuid"
)

// CreateBracket draws a single-elimination bracket and starts the tournament
// clock. An empty participantIDs uses the session's selected players.
func (s *sessionService) CreateBracket(ctx context.Context, id uuid.UUID, participantIDs []int) (*brackets.Bracket, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	if err := requireOpen(st); err != nil {
		return nil, err
	}

	doc := st.document()
	if doc.Bracket != nil && doc.Bracket.Status != brackets.BracketCompleted {
		return nil, ErrBracketInProgress
	}

	ids := slices.Clone(participantIDs)
	if len(ids) == 0 {
		ids = slices.Clone(st.session.PlayerIDs)
	}
	if err := s.requireParticipants(ctx, ids); err != nil {
		return nil, err
	}

	bracket, err := s.generator.Build(ctx, ids)
	switch {
	case errors.Is(err, brackets.ErrNotEnoughParticipants):
		return nil, fmt.Errorf("%w: %w", ErrNotEnoughPlayers, err)
	case errors.Is(err, brackets.ErrDuplicateParticipant):
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	case err != nil:
		return nil, fmt.Errorf("build bracket: %w", err)
	}

	now := s.now()
	doc.Bracket = bracket
	doc.TournamentClock.Start(st.session.TournamentMinutes, now)

	if err := s.persist(ctx, nil, id, doc); err != nil {
		return nil, err
	}
	st.apply(doc)

	s.logger.InfoContext(ctx, "bracket created",
		slog.String("session_id", id.String()),
		slog.String("generator", s.generator.GetName()),
		slog.Int("participants", len(ids)),
		slog.Int("rounds", bracket.TotalRounds()),
	)
	s.publish(id, ws.EventBracketUpdated, bracket.Clone())
	s.publish(id, ws.EventClockUpdated, map[string]interface{}{
		"clock":    ClockTournament,
		"snapshot": doc.TournamentClock.Snapshot(now),
	})
	return bracket.Clone(), nil
}

func (s *sessionService) GetBracket(ctx context.Context, id uuid.UUID) (*brackets.Bracket, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	if st.bracket == nil {
		return nil, ErrBracketNotStarted
	}
	return st.bracket.Clone(), nil
}

func (s *sessionService) AdvanceMatch(ctx context.Context, id uuid.UUID, matchID, score1, score2 int) (*brackets.Bracket, error) {
	st, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer st.mu.Unlock()
	if err := requireOpen(st); err != nil {
		return nil, err
	}

	doc := st.document()
	if doc.Bracket == nil {
		return nil, ErrBracketNotStarted
	}

	bracket := doc.Bracket.Clone()
	if err := bracket.Advance(matchID, score1, score2); err != nil {
		return nil, mapBracketError(err)
	}

	now := s.now()
	doc.Bracket = bracket
	completed := bracket.Status == brackets.BracketCompleted
	previousArchive := doc.ArchiveKey
	var archiveURL, archiveKey string
	if completed {
		doc.TournamentClock.Reset()
		archiveURL, archiveKey = s.archiveTournament(ctx, st, bracket, now)
		if archiveKey != "" {
			doc.ArchiveKey = archiveKey
		}
	}

	if err := s.persist(ctx, nil, id, doc); err != nil {
		if archiveKey != "" {
			s.deleteArchive(ctx, id, archiveKey)
		}
		return nil, err
	}
	st.apply(doc)

	// У сессии хранится только архив последнего турнира.
	if archiveKey != "" && previousArchive != "" && previousArchive != archiveKey {
		s.deleteArchive(ctx, id, previousArchive)
	}

	s.publish(id, ws.EventBracketUpdated, bracket.Clone())
	if completed {
		s.logger.InfoContext(ctx, "tournament completed", slog.String("session_id", id.String()), slog.Any("winner", bracket.Winner))
		s.publish(id, ws.EventTournamentCompleted, map[string]interface{}{
			"winner":      bracket.Winner,
			"runner_up":   bracket.RunnerUp,
			"archive_url": archiveURL,
		})
	}
	return bracket.Clone(), nil
}

func mapBracketError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrMatchNotFound):
		return fmt.Errorf("%w: %w", ErrMatchNotFound, err)
	case errors.Is(err, brackets.ErrMatchNotPlayable), errors.Is(err, brackets.ErrBracketCompleted):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	case errors.Is(err, brackets.ErrTiedScore), errors.Is(err, brackets.ErrNegativeScore):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	default:
		return fmt.Errorf("advance match: %w", err)
	}
}

// archiveTournament uploads the finished bracket and returns its public URL
// and storage key. Archive failures are logged and never undo the completed
// tournament; both results are empty then.
func (s *sessionService) archiveTournament(ctx context.Context, st *sessionState, bracket *brackets.Bracket, completedAt time.Time) (string, string) {
	if s.uploader == nil {
		return "", ""
	}

	archive := TournamentArchive{
		SessionID:   st.session.ID.String(),
		SessionName: st.session.Name,
		CompletedAt: completedAt,
		Winner:      bracket.Winner,
		RunnerUp:    bracket.RunnerUp,
		Bracket:     bracket,
	}
	roster, _, err := s.loadRoster(ctx, bracket.ParticipantIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "archive: failed to load participants", slog.String("session_id", archive.SessionID), slog.Any("error", err))
	}
	archive.Participants = roster

	body, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		s.logger.ErrorContext(ctx, "archive: failed to encode", slog.String("session_id", archive.SessionID), slog.Any("error", err))
		return "", ""
	}

	key := storage.ArchiveKey(archive.SessionID, completedAt)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		s.logger.ErrorContext(ctx, "archive: upload failed", slog.String("session_id", archive.SessionID), slog.String("key", key), slog.Any("error", err))
		return "", ""
	}
	return result.Location, key
}

func (s *sessionService) deleteArchive(ctx context.Context, id uuid.UUID, key string) {
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "archive: delete failed", slog.String("session_id", id.String()), slog.String("key", key), slog.Any("error", err))
	}
}
