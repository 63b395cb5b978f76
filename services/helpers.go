package services

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Dosada05/rotation-players/models"
	"github.com/Dosada05/rotation-players/repositories"
)

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисного слоя.
func handleRepositoryError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, repositories.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, repositories.ErrParticipantNameConflict):
		return ErrParticipantNameConflict
	case errors.Is(err, repositories.ErrSessionNameConflict):
		return ErrSessionNameConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

func dereferenceParticipants(slice []*models.Participant) []models.Participant {
	result := make([]models.Participant, 0, len(slice))
	for _, p := range slice {
		if p != nil {
			result = append(result, *p)
		}
	}
	return result
}

// checkUniqueIDs rejects non-positive and repeated participant IDs.
func checkUniqueIDs(ids []int) error {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return validationError("invalid participant id %d", id)
		}
		if seen[id] {
			return validationError("participant %d listed twice", id)
		}
		seen[id] = true
	}
	return nil
}

// missingIDs returns the IDs of want that found does not contain.
func missingIDs(want []int, found []*models.Participant) []int {
	have := make(map[int]bool, len(found))
	for _, p := range found {
		have[p.ID] = true
	}
	var missing []int
	for _, id := range want {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)
	return missing
}
