package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaDeclaresTables(t *testing.T) {
	ddl := Schema()
	for _, table := range []string{"participants", "rating_history", "sessions", "game_results"} {
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	// Repositories map these constraint names to conflict errors.
	assert.Contains(t, ddl, "participants_name_key")
	assert.Contains(t, ddl, "sessions_name_key")
	assert.False(t, strings.Contains(ddl, "DROP "), "schema must stay idempotent")
}
