package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n))
	return n
}

func TestApply_RecordsOnce(t *testing.T) {
	ctx := context.Background()
	db := openMemDB(t)
	fsys := fstest.MapFS{
		"001_items.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
		"002_more.sql":  &fstest.MapFile{Data: []byte("CREATE TABLE more(id TEXT);")},
		"README.md":     &fstest.MapFile{Data: []byte("ignored")},
	}

	require.NoError(t, Apply(ctx, db, fsys, ""))
	require.NoError(t, Apply(ctx, db, fsys, "."))

	assert.Equal(t, 2, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='items'"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='more'"))
}

func TestApply_FailingMigrationRollsBack(t *testing.T) {
	db := openMemDB(t)
	fsys := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("CREATE TABLE ok(id TEXT); NOT SQL;")},
	}
	require.Error(t, Apply(context.Background(), db, fsys, ""))
	assert.Zero(t, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nA\n", UpSection("-- +migrate Up\nA\n-- +migrate Down\nB"))
	assert.Equal(t, "\nA", UpSection("-- +migrate Up\nA"))
	assert.Equal(t, "plain", UpSection("plain"))
}

func TestApply_RequiresDB(t *testing.T) {
	assert.Error(t, Apply(context.Background(), nil, fstest.MapFS{}, ""))
}
