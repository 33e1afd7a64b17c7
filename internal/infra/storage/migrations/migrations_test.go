package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keviiweb/VBS-sub000/pkg/logger"
)

func TestRunner_Pending(t *testing.T) {
	r := NewRunner(nil, nil, logger.NewNop())

	all, err := r.Pending(nil)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, "0001_init.sql", all[0])
	assert.IsIncreasing(t, all)

	pending, err := r.Pending(map[string]bool{"0001_init.sql": true})
	require.NoError(t, err)
	assert.NotContains(t, pending, "0001_init.sql")
}

func TestMigrations_CreateSlotUniqueness(t *testing.T) {
	r := NewRunner(nil, nil, logger.NewNop())

	b, err := fs.ReadFile(r.files, "0001_init.sql")
	require.NoError(t, err)
	content := string(b)
	assert.Contains(t, content, "UNIQUE (venue_id, date, slot)")
	assert.Contains(t, content, "CREATE TABLE IF NOT EXISTS booking_requests")
}
