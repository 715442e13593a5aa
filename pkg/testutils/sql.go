package testutils

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dbmerge/dbmerge/pkg/sqlutil"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// CreateDB creates an SQLite database file in a temp dir and runs the
// given statements in one transaction. Returns the file path.
func CreateDB(t *testing.T, statements []string) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "sqlite.db")
	db, err := sql.Open("sqlite3", fp)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	require.NoError(t, sqlutil.RunInTx(db, func(tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	}))
	return fp
}
