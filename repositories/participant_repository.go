package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/rotation-players/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound     = errors.New("participant not found")
	ErrParticipantNameConflict = errors.New("participant name is already in use")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	List(ctx context.Context) ([]*models.Participant, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Participant, error)
	UpdateName(ctx context.Context, id int, name string) error
	// UpdateStats writes counters and the derived rating of p.
	UpdateStats(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `id, name, wins, losses, points_for, points_against, rating, created_at`

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (name, wins, losses, points_for, points_against, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Name,
		p.Wins,
		p.Losses,
		p.PointsFor,
		p.PointsAgainst,
		p.Rating,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return r.handleParticipantError(err, "create")
	}
	return nil
}

func (r *postgresParticipantRepository) scanParticipant(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.Participant) error {
	return rowScanner.Scan(
		&p.ID,
		&p.Name,
		&p.Wins,
		&p.Losses,
		&p.PointsFor,
		&p.PointsAgainst,
		&p.Rating,
		&p.CreatedAt,
	)
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	p := &models.Participant{}
	if err := r.scanParticipant(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) List(ctx context.Context) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants ORDER BY rating DESC, id ASC`
	return r.list(ctx, query)
}

func (r *postgresParticipantRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Participant, error) {
	if len(ids) == 0 {
		return []*models.Participant{}, nil
	}
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = ANY($1) ORDER BY id ASC`
	return r.list(ctx, query, pq.Array(toInt64s(ids)))
}

func (r *postgresParticipantRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if scanErr := r.scanParticipant(rows, p); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateName(ctx context.Context, id int, name string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return r.handleParticipantError(err, "rename")
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdateStats(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE participants
		SET wins = $1, losses = $2, points_for = $3, points_against = $4, rating = $5
		WHERE id = $6`

	result, err := exec.ExecContext(ctx, query, p.Wins, p.Losses, p.PointsFor, p.PointsAgainst, p.Rating, p.ID)
	if err != nil {
		return fmt.Errorf("UpdateStats: failed to execute query for participant %d: %w", p.ID, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return r.handleParticipantError(err, "delete")
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) handleParticipantError(err error, op string) error {
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23505" && pqErr.Constraint == "participants_name_key" { // unique_violation
			return ErrParticipantNameConflict
		}
	}
	return fmt.Errorf("failed to %s participant: %w", op, err)
}
