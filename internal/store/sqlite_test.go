package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "nested", "review.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Join(dir, "nested"))
	assert.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, Migrate(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestCodec(t *testing.T) {
	assert.Equal(t, "[]", EncodeJSON(nil))
	assert.Equal(t, `["a","b"]`, EncodeJSON([]string{"a", "b"}))
	assert.Equal(t, []string{"a"}, DecodeStrings(`["a"]`))
	assert.Nil(t, DecodeStrings("not json"))
	assert.Equal(t, map[string]any{"k": "v"}, DecodeObject(`{"k":"v"}`))
	assert.Empty(t, DecodeObject("{broken"))
	assert.Equal(t, 1, BoolToInt(true))
}
