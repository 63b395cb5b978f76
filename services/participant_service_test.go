package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/rotation-players/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParticipantFixture() (*participantService, *fakeParticipantRepo, *fakeHistoryRepo) {
	participants := newFakeParticipantRepo()
	history := &fakeHistoryRepo{}
	svc := NewParticipantService(participants, history, fakeTx{}, discardLogger()).(*participantService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, participants, history
}

func TestParticipantService_Create(t *testing.T) {
	svc, _, history := newParticipantFixture()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateParticipantInput{Name: "  Alice "})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.NotZero(t, p.ID)

	entries, err := svc.History(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1, "a new participant gets a seed history entry")
	assert.Zero(t, entries[0].Rating)
	assert.Equal(t, 1, history.count())

	_, err = svc.Create(ctx, CreateParticipantInput{Name: ""})
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = svc.Create(ctx, CreateParticipantInput{Name: "Alice"})
	assert.ErrorIs(t, err, ErrParticipantNameConflict)
}

func TestParticipantService_RenameAndDelete(t *testing.T) {
	svc, repo, _ := newParticipantFixture()
	ctx := context.Background()
	ids := repo.seed("Bob")

	p, err := svc.Rename(ctx, ids[0], "Robert")
	require.NoError(t, err)
	assert.Equal(t, "Robert", p.Name)

	_, err = svc.Rename(ctx, ids[0], " ")
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = svc.Rename(ctx, 404, "Nobody")
	assert.ErrorIs(t, err, ErrParticipantNotFound)

	require.NoError(t, svc.Delete(ctx, ids[0]))
	assert.ErrorIs(t, svc.Delete(ctx, ids[0]), ErrParticipantNotFound)
	_, err = svc.GetProfile(ctx, ids[0])
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestParticipantService_RecalculateRatings(t *testing.T) {
	svc, repo, history := newParticipantFixture()
	ctx := context.Background()
	ids := repo.seed("A", "B", "C")

	// Counters changed outside the rating engine; ratings are stale.
	a := repo.get(ids[0])
	a.Wins, a.Losses, a.PointsFor, a.PointsAgainst = 2, 1, 63, 50
	require.NoError(t, repo.UpdateStats(ctx, nil, &a))

	updated, err := svc.RecalculateRatings(ctx)
	require.NoError(t, err)
	require.Len(t, updated, 3)
	assert.InDelta(t, 1.13, repo.get(ids[0]).Rating, 1e-9)
	assert.Equal(t, 3, history.count(), "first run seeds every participant")

	_, err = svc.RecalculateRatings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, history.count(), "unchanged ratings append nothing")

	b := repo.get(ids[1])
	b.Losses = 1
	require.NoError(t, repo.UpdateStats(ctx, nil, &b))
	_, err = svc.RecalculateRatings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, history.count())

	entries, err := svc.History(ctx, ids[1])
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, -1.0, entries[1].Rating)
}

func TestParticipantService_RecalculateEmptyRoster(t *testing.T) {
	svc, _, history := newParticipantFixture()
	updated, err := svc.RecalculateRatings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, updated)
	assert.Zero(t, history.count())
}

func TestParticipantService_GetProfile(t *testing.T) {
	svc, repo, history := newParticipantFixture()
	ctx := context.Background()
	ids := repo.seed("Dana")
	require.NoError(t, history.Append(ctx, nil, []models.RatingHistoryEntry{
		{ParticipantID: ids[0], Rating: 0},
		{ParticipantID: ids[0], Rating: 1.2},
	}))

	profile, err := svc.GetProfile(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Dana", profile.Participant.Name)
	assert.Len(t, profile.History, 2)
}
