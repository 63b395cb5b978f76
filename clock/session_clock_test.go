package clock

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func seconds(d time.Duration) float64 { return d.Seconds() }

func TestIdleClock(t *testing.T) {
	c := New(15)
	elapsed, remaining := c.ElapsedAndRemaining(t0)
	assert.Zero(t, elapsed)
	assert.Equal(t, 900.0, seconds(remaining))
	assert.False(t, c.Expired(t0))

	var zero SessionClock
	assert.False(t, zero.Pause(t0), "zero value is idle")
	assert.Equal(t, StateIdle, zero.Snapshot(t0).State)
}

func TestStart_ImmediatelyReadsFullDuration(t *testing.T) {
	c := New(0)
	c.Start(15, t0)

	elapsed, remaining := c.ElapsedAndRemaining(t0)
	assert.Equal(t, 0.0, seconds(elapsed))
	assert.Equal(t, 900.0, seconds(remaining))
	assert.Equal(t, StateRunning, c.State)
}

func TestPauseResume_PausedTimeDoesNotCount(t *testing.T) {
	c := New(15)
	c.Start(15, t0)

	require.True(t, c.Pause(t0.Add(30*time.Second)))
	elapsed, _ := c.ElapsedAndRemaining(t0.Add(35 * time.Second))
	assert.Equal(t, 30.0, seconds(elapsed), "frozen while paused")

	require.True(t, c.Resume(t0.Add(40*time.Second)))
	assert.Equal(t, 10*time.Second, c.AccumulatedPause)

	elapsed, remaining := c.ElapsedAndRemaining(t0.Add(40 * time.Second))
	assert.Equal(t, 30.0, seconds(elapsed), "continues from 30, not 40")
	assert.Equal(t, 870.0, seconds(remaining))

	elapsed, _ = c.ElapsedAndRemaining(t0.Add(50 * time.Second))
	assert.Equal(t, 40.0, seconds(elapsed))
}

func TestInvalidTransitionsAreNoOps(t *testing.T) {
	c := New(10)
	assert.False(t, c.Pause(t0), "pause idle")
	assert.False(t, c.Resume(t0), "resume idle")

	c.Start(10, t0)
	assert.False(t, c.Resume(t0.Add(time.Second)), "resume running")

	require.True(t, c.Pause(t0.Add(2*time.Second)))
	assert.False(t, c.Pause(t0.Add(3*time.Second)), "pause paused")
	assert.Equal(t, t0.Add(2*time.Second), *c.PauseTime)
}

func TestReset(t *testing.T) {
	c := New(10)
	c.Start(10, t0)
	c.Pause(t0.Add(time.Minute))
	c.Reset()

	assert.Equal(t, StateIdle, c.State)
	assert.Nil(t, c.StartTime)
	assert.Nil(t, c.PauseTime)
	assert.Zero(t, c.AccumulatedPause)
	assert.Equal(t, 10, c.DurationMinutes)

	elapsed, remaining := c.ElapsedAndRemaining(t0.Add(time.Hour))
	assert.Zero(t, elapsed)
	assert.Equal(t, 10*time.Minute, remaining)
}

func TestRestartClearsPauseBookkeeping(t *testing.T) {
	c := New(5)
	c.Start(5, t0)
	c.Pause(t0.Add(time.Minute))
	c.Resume(t0.Add(2 * time.Minute))

	c.Start(3, t0.Add(10*time.Minute))
	assert.Zero(t, c.AccumulatedPause)
	_, remaining := c.ElapsedAndRemaining(t0.Add(10 * time.Minute))
	assert.Equal(t, 3*time.Minute, remaining)
}

func TestClockSkewClampsToZero(t *testing.T) {
	c := New(15)
	c.Start(15, t0)

	elapsed, remaining := c.ElapsedAndRemaining(t0.Add(-5 * time.Second))
	assert.Zero(t, elapsed)
	assert.Equal(t, 15*time.Minute, remaining)

	c.Pause(t0.Add(time.Second))
	c.Resume(t0)
	assert.Zero(t, c.AccumulatedPause, "resume before pause adds nothing")
}

func TestExpired(t *testing.T) {
	c := New(1)
	c.Start(1, t0)
	assert.False(t, c.Expired(t0.Add(59*time.Second)))
	assert.True(t, c.Expired(t0.Add(60*time.Second)))

	_, remaining := c.ElapsedAndRemaining(t0.Add(5 * time.Minute))
	assert.Zero(t, remaining)

	c.Pause(t0.Add(30 * time.Second))
	assert.False(t, c.Expired(t0.Add(5*time.Minute)), "paused clocks never expire")
}

func TestTwoClocksAreIndependent(t *testing.T) {
	game, tournament := New(15), New(120)
	game.Start(15, t0)
	tournament.Start(120, t0)

	game.Pause(t0.Add(time.Minute))
	_, gameLeft := game.ElapsedAndRemaining(t0.Add(10 * time.Minute))
	_, tournamentLeft := tournament.ElapsedAndRemaining(t0.Add(10 * time.Minute))

	assert.Equal(t, 14*time.Minute, gameLeft)
	assert.Equal(t, 110*time.Minute, tournamentLeft)
}

func TestClockSurvivesJSONRoundTrip(t *testing.T) {
	c := New(15)
	c.Start(15, t0)
	c.Pause(t0.Add(90 * time.Second))

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var restored SessionClock
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, c.Snapshot(t0.Add(time.Hour)), restored.Snapshot(t0.Add(time.Hour)))
}
