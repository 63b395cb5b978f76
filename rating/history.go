package rating

import "github.com/Dosada05/rotation-players/models"

// History is an in-memory, append-only rating log keyed by participant.
// A nil *History behaves as an empty log that discards appends.
type History struct {
	entries map[int][]models.RatingHistoryEntry
}

func NewHistory(entries ...models.RatingHistoryEntry) *History {
	h := &History{entries: make(map[int][]models.RatingHistoryEntry)}
	for _, e := range entries {
		h.Append(e)
	}
	return h
}

func (h *History) Append(e models.RatingHistoryEntry) {
	if h == nil {
		return
	}
	if h.entries == nil {
		h.entries = make(map[int][]models.RatingHistoryEntry)
	}
	h.entries[e.ParticipantID] = append(h.entries[e.ParticipantID], e)
}

func (h *History) Last(participantID int) (models.RatingHistoryEntry, bool) {
	if h == nil {
		return models.RatingHistoryEntry{}, false
	}
	list := h.entries[participantID]
	if len(list) == 0 {
		return models.RatingHistoryEntry{}, false
	}
	return list[len(list)-1], true
}

// Entries returns a copy of the participant's log, oldest first.
func (h *History) Entries(participantID int) []models.RatingHistoryEntry {
	if h == nil {
		return nil
	}
	list := h.entries[participantID]
	out := make([]models.RatingHistoryEntry, len(list))
	copy(out, list)
	return out
}
