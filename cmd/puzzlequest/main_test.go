package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/puzzlequest/internal/db"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/repository/sqlite"
	"github.com/vytor/puzzlequest/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PUZZLE_SOURCE", "static")
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, path string) {
	t.Helper()
	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	st := store.New(sqlite.NewRecordRepository(database.DB))
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, store.KindProgress, map[string]any{"level": 3, "totalXP": 300, "streak": 2}))
	require.NoError(t, st.Save(ctx, store.KindUser, models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now()}))
}

func TestStatsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	seed(t, path)

	out, err := run(t, "stats", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 (300 XP)")
	assert.Contains(t, out, "Daily streak")
	assert.Contains(t, out, "pattern")
	assert.Contains(t, out, "progress, user")
}

func TestStatsCommand_EmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")

	out, err := run(t, "stats", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "none, showing defaults")
	assert.Contains(t, out, "1 (0 XP)")
}

func TestReportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	seed(t, path)

	out, err := run(t, "report", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Level 3: 50/200 XP")
	assert.Contains(t, out, "Suggested difficulty: medium")
}

func TestResetCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reset.db")
	seed(t, path)

	_, err := run(t, "reset", "--db", path)
	require.Error(t, err)

	_, err = run(t, "reset", "bogus", "--yes", "--db", path)
	require.Error(t, err)

	out, err := run(t, "reset", "progress", "--yes", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared: progress")

	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()
	st := store.New(sqlite.NewRecordRepository(database.DB))

	progress, err := st.Progress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProgress().Level, progress.Level)

	user, err := st.User(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)
}
