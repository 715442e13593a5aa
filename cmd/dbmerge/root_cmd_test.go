// SPDX-License-Identifier: Apache-2.0
// Copyright © 2022 Wrangle Ltd

package dbmerge

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dbmerge/dbmerge/pkg/sqlite"
	"github.com/dbmerge/dbmerge/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmdRequiredFlags(t *testing.T) {
	_, err := execute(t)
	assert.ErrorContains(t, err, "--priority is required")
}

func TestRootCmdMissingSource(t *testing.T) {
	dir := t.TempDir()
	pri := testutils.CreateDB(t, []string{`CREATE TABLE t (id INTEGER PRIMARY KEY)`})
	missing := filepath.Join(dir, "nope.db")
	out := filepath.Join(dir, "out.db")

	_, err := execute(t, "--priority", pri, "--fallback", missing, "--output", out)
	assert.ErrorContains(t, err, "file not found: "+missing)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output produced on fatal precondition")

	_, err = execute(t, "--priority", missing, "--fallback", pri, "--output", out)
	assert.ErrorContains(t, err, "file not found: "+missing)
}

func TestRootCmdMerge(t *testing.T) {
	pri := testutils.CreateDB(t, []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, email TEXT)`,
		`INSERT INTO users VALUES (1, 'Alice', NULL)`,
		`CREATE TABLE lopsided (a INTEGER PRIMARY KEY, b TEXT)`,
		`CREATE TABLE notes (body TEXT)`,
		`CREATE TABLE matches (key TEXT, team_key TEXT, score INTEGER)`,
		`INSERT INTO matches VALUES ('qm1', 'frc1', NULL)`,
	})
	fb := testutils.CreateDB(t, []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, email TEXT)`,
		`INSERT INTO users VALUES (1, 'Alice', 'alice@x.com')`,
		`INSERT INTO users VALUES (2, 'Bob', 'bob@x.com')`,
		`CREATE TABLE lopsided (a INTEGER PRIMARY KEY, b TEXT, c TEXT)`,
		`CREATE TABLE notes (body TEXT)`,
		`CREATE TABLE matches (key TEXT, team_key TEXT, score INTEGER)`,
		`INSERT INTO matches VALUES ('qm1', 'frc1', 9)`,
	})
	out := filepath.Join(t.TempDir(), "merged.db")

	output, err := execute(t, "--priority", pri, "--fallback", fb, "--output", out, "--quiet")
	require.NoError(t, err)
	assert.Contains(t, output, "users: 2 rows (key: id)")
	assert.Contains(t, output, "lopsided: schema mismatch")
	assert.Contains(t, output, "notes: no primary key declared")
	assert.Contains(t, output, "matches: 1 rows (key: key, team_key, from config)")
	assert.Contains(t, output, "Merged 2 of 4 tables (2 skipped, 0 failed). Output saved to "+out)

	src, err := sqlite.NewSource(out)
	require.NoError(t, err)
	defer src.Close()
	names, err := src.TableNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "matches"}, names)
	users, err := src.ReadAll("users")
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{int64(1), "Alice", "alice@x.com"},
		{int64(2), "Bob", "bob@x.com"},
	}, users.Rows)
	matches, err := src.ReadAll("matches")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"qm1", "frc1", int64(9)}}, matches.Rows)
}

func TestRootCmdFallbackKeyFlag(t *testing.T) {
	pri := testutils.CreateDB(t, []string{
		`CREATE TABLE rankings (event_key TEXT, rank INTEGER, team TEXT)`,
		`INSERT INTO rankings VALUES ('2022nyc', 1, NULL)`,
	})
	fb := testutils.CreateDB(t, []string{
		`CREATE TABLE rankings (event_key TEXT, rank INTEGER, team TEXT)`,
		`INSERT INTO rankings VALUES ('2022nyc', 1, 'frc254')`,
		`INSERT INTO rankings VALUES ('2022nyc', 2, 'frc1678')`,
	})
	out := filepath.Join(t.TempDir(), "merged.db")

	output, err := execute(t,
		"--priority", pri, "--fallback", fb, "--output", out, "--quiet",
		"--fallback-key", "rankings=event_key,rank",
	)
	require.NoError(t, err)
	assert.Contains(t, output, "rankings: 2 rows (key: event_key, rank, from config)")

	src, err := sqlite.NewSource(out)
	require.NoError(t, err)
	defer src.Close()
	d, err := src.ReadAll("rankings")
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{"2022nyc", int64(1), "frc254"},
		{"2022nyc", int64(2), "frc1678"},
	}, d.Rows)
}

func TestRootCmdConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("fallbackKeys:\n  scores: [game]\n"), 0644))
	pri := testutils.CreateDB(t, []string{
		`CREATE TABLE scores (game TEXT, points INTEGER)`,
		`INSERT INTO scores VALUES ('g1', NULL)`,
	})
	fb := testutils.CreateDB(t, []string{
		`CREATE TABLE scores (game TEXT, points INTEGER)`,
		`INSERT INTO scores VALUES ('g1', 4)`,
	})
	out := filepath.Join(dir, "merged.db")

	output, err := execute(t, "--priority", pri, "--fallback", fb, "--output", out, "--quiet", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, output, "scores: 1 rows (key: game, from config)")
}

func TestRootCmdLogFile(t *testing.T) {
	dir := t.TempDir()
	pri := testutils.CreateDB(t, []string{
		`CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`,
		`INSERT INTO t VALUES (1, 'a')`,
	})
	fb := testutils.CreateDB(t, []string{
		`CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`,
	})
	out := filepath.Join(dir, "merged.db")
	logFile := filepath.Join(dir, "debug.log")

	_, err := execute(t,
		"--priority", pri, "--fallback", fb, "--output", out, "--quiet",
		"--log-file", logFile, "--log-verbosity", "1",
	)
	require.NoError(t, err)
	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "merged table")
}

func TestVersionCmd(t *testing.T) {
	output, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "dbmerge v")
}
