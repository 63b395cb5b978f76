package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/rotation-players/models"
	"github.com/Dosada05/rotation-players/rating"
	"github.com/Dosada05/rotation-players/repositories"
	"golang.org/x/sync/errgroup"
)

type ParticipantService interface {
	Create(ctx context.Context, input CreateParticipantInput) (*models.Participant, error)
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	GetProfile(ctx context.Context, id int) (*ParticipantProfile, error)
	List(ctx context.Context) ([]*models.Participant, error)
	Rename(ctx context.Context, id int, name string) (*models.Participant, error)
	Delete(ctx context.Context, id int) error
	History(ctx context.Context, id int) ([]models.RatingHistoryEntry, error)
	// RecalculateRatings пересчитывает рейтинг всего ростера и дописывает историю.
	RecalculateRatings(ctx context.Context) ([]*models.Participant, error)
}

type CreateParticipantInput struct {
	Name string `json:"name"`
}

type ParticipantProfile struct {
	Participant *models.Participant         `json:"participant"`
	History     []models.RatingHistoryEntry `json:"history"`
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	historyRepo     repositories.RatingHistoryRepository
	txRunner        repositories.TxRunner
	logger          *slog.Logger
	now             func() time.Time
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	historyRepo repositories.RatingHistoryRepository,
	txRunner repositories.TxRunner,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		historyRepo:     historyRepo,
		txRunner:        txRunner,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *participantService) Create(ctx context.Context, input CreateParticipantInput) (*models.Participant, error) {
	p, err := models.NewParticipant(0, input.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if err := s.participantRepo.Create(ctx, &p); err != nil {
		return nil, handleRepositoryError(err, "create participant")
	}

	// Новый участник получает стартовую запись истории с рейтингом 0.
	_, seed := rating.Recompute([]models.Participant{p}, rating.NewHistory(), s.now())
	if err := s.historyRepo.Append(ctx, nil, seed); err != nil {
		s.logger.WarnContext(ctx, "failed to seed rating history", slog.Int("participant_id", p.ID), slog.Any("error", err))
	}
	return &p, nil
}

func (s *participantService) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	p, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get participant")
	}
	return p, nil
}

func (s *participantService) GetProfile(ctx context.Context, id int) (*ParticipantProfile, error) {
	profile := &ParticipantProfile{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.participantRepo.GetByID(gctx, id)
		if err != nil {
			return handleRepositoryError(err, "get participant")
		}
		profile.Participant = p
		return nil
	})
	g.Go(func() error {
		entries, err := s.historyRepo.ListByParticipant(gctx, id)
		if err != nil {
			return fmt.Errorf("list rating history: %w", err)
		}
		profile.History = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *participantService) List(ctx context.Context) ([]*models.Participant, error) {
	participants, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list participants")
	}
	return participants, nil
}

func (s *participantService) Rename(ctx context.Context, id int, name string) (*models.Participant, error) {
	renamed, err := models.NewParticipant(id, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if err := s.participantRepo.UpdateName(ctx, id, renamed.Name); err != nil {
		return nil, handleRepositoryError(err, "rename participant")
	}
	return s.GetByID(ctx, id)
}

func (s *participantService) Delete(ctx context.Context, id int) error {
	if err := s.participantRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err, "delete participant")
	}
	return nil
}

func (s *participantService) History(ctx context.Context, id int) ([]models.RatingHistoryEntry, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile.History, nil
}

func (s *participantService) RecalculateRatings(ctx context.Context) ([]*models.Participant, error) {
	stored, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list participants")
	}
	if len(stored) == 0 {
		return stored, nil
	}

	history, err := latestHistory(ctx, s.historyRepo)
	if err != nil {
		return nil, err
	}

	roster := dereferenceParticipants(stored)
	updated, appended := rating.Recompute(roster, history, s.now())

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for i := range updated {
			if updated[i].Rating == roster[i].Rating {
				continue
			}
			if err := s.participantRepo.UpdateStats(ctx, exec, &updated[i]); err != nil {
				return err
			}
		}
		return s.historyRepo.Append(ctx, exec, appended)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "store recalculated ratings")
	}

	s.logger.InfoContext(ctx, "ratings recalculated", slog.Int("participants", len(updated)), slog.Int("history_entries", len(appended)))

	result := make([]*models.Participant, len(updated))
	for i := range updated {
		result[i] = &updated[i]
	}
	return result, nil
}

// latestHistory loads the newest stored rating of each participant, which is
// all Recompute needs to decide whether to append.
func latestHistory(ctx context.Context, repo repositories.RatingHistoryRepository) (*rating.History, error) {
	latest, err := repo.ListLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest ratings: %w", err)
	}
	return rating.NewHistory(latest...), nil
}
