package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/rotation-players/models"
	"github.com/lib/pq"
)

type GameResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.GameResult) error
	ListBySession(ctx context.Context, sessionID string) ([]*models.GameResult, error)
}

type postgresGameResultRepository struct {
	db *sql.DB
}

func NewPostgresGameResultRepository(db *sql.DB) GameResultRepository {
	return &postgresGameResultRepository{db: db}
}

func (r *postgresGameResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.GameResult) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO game_results (session_id, round, court_number, team_a, team_b, score_a, score_b, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		result.SessionID,
		result.Round,
		result.CourtNumber,
		pq.Array(toInt64s(result.TeamA)),
		pq.Array(toInt64s(result.TeamB)),
		result.ScoreA,
		result.ScoreB,
		result.RecordedAt,
	).Scan(&result.ID)
	if err != nil {
		return fmt.Errorf("failed to insert game result for court %d: %w", result.CourtNumber, err)
	}
	return nil
}

func (r *postgresGameResultRepository) ListBySession(ctx context.Context, sessionID string) ([]*models.GameResult, error) {
	query := `
		SELECT id, session_id, round, court_number, team_a, team_b, score_a, score_b, recorded_at
		FROM game_results
		WHERE session_id = $1
		ORDER BY round ASC, court_number ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	results := make([]*models.GameResult, 0)
	for rows.Next() {
		var (
			res          models.GameResult
			teamA, teamB []int64
		)
		err := rows.Scan(
			&res.ID,
			&res.SessionID,
			&res.Round,
			&res.CourtNumber,
			pq.Array(&teamA),
			pq.Array(&teamB),
			&res.ScoreA,
			&res.ScoreB,
			&res.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result row: %w", err)
		}
		res.TeamA = toInts(teamA)
		res.TeamB = toInts(teamB)
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game result rows iteration: %w", err)
	}
	return results, nil
}
