package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSQLMigrationsRegistersEmbeddedFiles(t *testing.T) {
	require.NoError(t, LoadSQLMigrations())

	pending := Pending(nil)
	assert.Contains(t, pending, "0001_create_kv_entries")
	assert.Contains(t, pending, "0002_index_kv_entries_updated_at")
}

func TestPendingSkipsExecutedAndSorts(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0102_b.sql":   {Data: []byte("SELECT 2;")},
		"m/0101_a.sql":   {Data: []byte("SELECT 1;")},
		"m/README.md":    {Data: []byte("ignored")},
		"m/nested/x.sql": {Data: []byte("SELECT 3;")},
	}
	require.NoError(t, loadSQL(fsys, "m"))

	pending := Pending([]string{"0101_a"})
	assert.NotContains(t, pending, "0101_a")
	assert.NotContains(t, pending, "README")
	require.Contains(t, pending, "0102_b")

	for i := 1; i < len(pending); i++ {
		assert.Less(t, pending[i-1], pending[i])
	}
}
