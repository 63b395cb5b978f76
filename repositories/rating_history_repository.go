package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/rotation-players/models"
)

type RatingHistoryRepository interface {
	Append(ctx context.Context, exec SQLExecutor, entries []models.RatingHistoryEntry) error
	ListByParticipant(ctx context.Context, participantID int) ([]models.RatingHistoryEntry, error)
	// ListLatest returns the newest entry of every participant that has one.
	ListLatest(ctx context.Context) ([]models.RatingHistoryEntry, error)
}

type postgresRatingHistoryRepository struct {
	db *sql.DB
}

func NewPostgresRatingHistoryRepository(db *sql.DB) RatingHistoryRepository {
	return &postgresRatingHistoryRepository{db: db}
}

func (r *postgresRatingHistoryRepository) Append(ctx context.Context, exec SQLExecutor, entries []models.RatingHistoryEntry) error {
	if exec == nil {
		exec = r.db
	}
	query := `INSERT INTO rating_history (participant_id, rating, recorded_at) VALUES ($1, $2, $3)`
	for _, e := range entries {
		if _, err := exec.ExecContext(ctx, query, e.ParticipantID, e.Rating, e.Timestamp); err != nil {
			return fmt.Errorf("failed to append rating history for participant %d: %w", e.ParticipantID, err)
		}
	}
	return nil
}

func (r *postgresRatingHistoryRepository) ListByParticipant(ctx context.Context, participantID int) ([]models.RatingHistoryEntry, error) {
	query := `
		SELECT participant_id, rating, recorded_at
		FROM rating_history
		WHERE participant_id = $1
		ORDER BY recorded_at ASC, id ASC`
	return r.query(ctx, query, participantID)
}

func (r *postgresRatingHistoryRepository) ListLatest(ctx context.Context) ([]models.RatingHistoryEntry, error) {
	query := `
		SELECT DISTINCT ON (participant_id) participant_id, rating, recorded_at
		FROM rating_history
		ORDER BY participant_id, recorded_at DESC, id DESC`
	return r.query(ctx, query)
}

func (r *postgresRatingHistoryRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.RatingHistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.RatingHistoryEntry, 0)
	for rows.Next() {
		var e models.RatingHistoryEntry
		if err := rows.Scan(&e.ParticipantID, &e.Rating, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan rating history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rating history rows iteration: %w", err)
	}
	return entries, nil
}
