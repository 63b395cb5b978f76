package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"DATABASE_URL", "JWT_SECRET_KEY", "ORGANIZER_PASSWORD_HASH", "SERVER_PORT",
	"CLOCK_POLL_INTERVAL", "RATINGS_RECALC_CRON", "DEFAULT_GAME_MINUTES", "DEFAULT_TOURNAMENT_MINUTES",
	"CORS_ALLOWED_ORIGINS", "R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID",
	"R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
}

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, values[key])
	}
}

func required() map[string]string {
	return map[string]string{
		"DATABASE_URL":            "postgres://localhost/courts",
		"JWT_SECRET_KEY":          "secret",
		"ORGANIZER_PASSWORD_HASH": "$2a$12$hash",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	setEnv(t, required())

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, time.Second, cfg.ClockPollInterval)
	assert.Equal(t, 15, cfg.DefaultGameMinutes)
	assert.Equal(t, 120, cfg.DefaultTournamentMinutes)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	env := required()
	env["SERVER_PORT"] = "9090"
	env["CLOCK_POLL_INTERVAL"] = "2s"
	env["RATINGS_RECALC_CRON"] = "0 3 * * *"
	env["DEFAULT_GAME_MINUTES"] = "12"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example"
	env["R2_ACCOUNT_ID"] = "acc"
	env["R2_ACCESS_KEY_ID"] = "key"
	env["R2_SECRET_ACCESS_KEY"] = "secret"
	env["R2_BUCKET_NAME"] = "bucket"
	env["R2_PUBLIC_BASE_URL"] = "https://cdn.example"
	setEnv(t, env)

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 2*time.Second, cfg.ClockPollInterval)
	assert.Equal(t, "0 3 * * *", cfg.RatingsRecalcCron)
	assert.Equal(t, 12, cfg.DefaultGameMinutes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]string
		drop string
	}{
		{name: "missing database", drop: "DATABASE_URL"},
		{name: "missing secret", drop: "JWT_SECRET_KEY"},
		{name: "missing organizer hash", drop: "ORGANIZER_PASSWORD_HASH"},
		{name: "port not a number", set: map[string]string{"SERVER_PORT": "http"}},
		{name: "port out of range", set: map[string]string{"SERVER_PORT": "70000"}},
		{name: "zero game minutes", set: map[string]string{"DEFAULT_GAME_MINUTES": "0"}},
		{name: "bad poll interval", set: map[string]string{"CLOCK_POLL_INTERVAL": "soon"}},
		{name: "sub-second poll interval", set: map[string]string{"CLOCK_POLL_INTERVAL": "250ms"}},
		{name: "bad recalc cron", set: map[string]string{"RATINGS_RECALC_CRON": "every night"}},
		{name: "negative poll interval", set: map[string]string{"CLOCK_POLL_INTERVAL": "-1s"}},
		{name: "partial r2", set: map[string]string{"R2_ACCOUNT_ID": "acc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := required()
			for k, v := range tt.set {
				env[k] = v
			}
			delete(env, tt.drop)
			setEnv(t, env)

			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}
