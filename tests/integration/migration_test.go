//go:build integration

package integration

import (
	"testing"

	"github.com/drobe/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_DownAndUpAgain(t *testing.T) {
	tdb := NewTestDB(t)

	embedded, err := migration.ListEmbedded()
	require.NoError(t, err)
	require.NotEmpty(t, embedded)

	m, err := migration.NewFromURL(tdb.DSN, "", nil)
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(len(embedded)), version)

	require.NoError(t, m.Steps(-1))
	assert.False(t, tdb.DB.Migrator().HasTable("orders"))
	assert.True(t, tdb.DB.Migrator().HasTable("products"))

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, tdb.DB.Migrator().HasTable("products"))

	require.NoError(t, m.Up())
	assert.True(t, tdb.DB.Migrator().HasTable("orders"))
}
