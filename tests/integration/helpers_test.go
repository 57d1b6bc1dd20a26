// Package integration exercises the engine against real database files
// produced by a real SQLite build (modernc.org/sqlite).
package integration

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// createDB builds a real database file under dir with a populated table and
// returns its path. The file is fully checkpointed and closed, so its bytes
// form a complete image.
func createDB(t *testing.T, dir string, rows int) string {
	t.Helper()
	path := filepath.Join(dir, "source.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v INTEGER)`)
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		_, err = db.Exec(`INSERT INTO kv (k, v) VALUES (?, ?)`, fmt.Sprintf("key-%04d", i), i)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())
	return path
}

// readFile loads the raw bytes of a database file.
func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// queryRowCount opens a database file with the real driver and counts the
// rows in the kv table.
func queryRowCount(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}
