package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/rotation-players/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionNameConflict = errors.New("session name is already in use")
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	List(ctx context.Context) ([]*models.Session, error)
	// Update rewrites the settings columns; the state document is left alone.
	Update(ctx context.Context, s *models.Session) error
	SaveState(ctx context.Context, exec SQLExecutor, id uuid.UUID, state json.RawMessage) error
	// LoadState returns nil when the session has never stored a state.
	LoadState(ctx context.Context, id uuid.UUID) (json.RawMessage, error)
}

type postgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(db *sql.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

const sessionColumns = `id, name, strategy, game_minutes, tournament_minutes, auto_rotate, player_ids, status, created_at, updated_at`

func (r *postgresSessionRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, name, strategy, game_minutes, tournament_minutes, auto_rotate, player_ids, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.ID,
		s.Name,
		s.Strategy,
		s.GameMinutes,
		s.TournamentMinutes,
		s.AutoRotate,
		pq.Array(toInt64s(s.PlayerIDs)),
		s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return handleSessionError(err, "create")
	}
	return nil
}

func scanSession(rowScanner interface {
	Scan(dest ...interface{}) error
}, s *models.Session) error {
	var playerIDs []int64
	err := rowScanner.Scan(
		&s.ID,
		&s.Name,
		&s.Strategy,
		&s.GameMinutes,
		&s.TournamentMinutes,
		&s.AutoRotate,
		pq.Array(&playerIDs),
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	s.PlayerIDs = toInts(playerIDs)
	return nil
}

func (r *postgresSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s := &models.Session{}
	if err := scanSession(r.db.QueryRowContext(ctx, query, id), s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return s, nil
}

func (r *postgresSessionRepository) List(ctx context.Context) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		s := &models.Session{}
		if err := scanSession(rows, s); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during session rows iteration: %w", err)
	}
	return sessions, nil
}

func (r *postgresSessionRepository) Update(ctx context.Context, s *models.Session) error {
	query := `
		UPDATE sessions
		SET name = $1, strategy = $2, game_minutes = $3, tournament_minutes = $4,
		    auto_rotate = $5, player_ids = $6, status = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.Name,
		s.Strategy,
		s.GameMinutes,
		s.TournamentMinutes,
		s.AutoRotate,
		pq.Array(toInt64s(s.PlayerIDs)),
		s.Status,
		s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return handleSessionError(err, "update")
	}
	return nil
}

func (r *postgresSessionRepository) SaveState(ctx context.Context, exec SQLExecutor, id uuid.UUID, state json.RawMessage) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE sessions SET state = $1, updated_at = NOW() WHERE id = $2`,
		[]byte(state), id,
	)
	if err != nil {
		return fmt.Errorf("failed to save state of session %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrSessionNotFound)
}

func (r *postgresSessionRepository) LoadState(ctx context.Context, id uuid.UUID) (json.RawMessage, error) {
	var state []byte
	err := r.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = $1`, id).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load state of session %s: %w", id, err)
	}
	if len(state) == 0 {
		return nil, nil
	}
	return json.RawMessage(state), nil
}

func handleSessionError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == "sessions_name_key" {
			return ErrSessionNameConflict
		}
	}
	return fmt.Errorf("failed to %s session: %w", op, err)
}
