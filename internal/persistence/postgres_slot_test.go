package persistence

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDB emulates the session_slots table for the statements the slot issues.
type fakeDB struct {
	rows  map[string]string
	execs []string
	err   error
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.value
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		f.rows[args[0].(string)] = args[1].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.HasPrefix(sql, "DELETE"):
		delete(f.rows, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	value, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: value}
}

func TestPostgresSlotLifecycle(t *testing.T) {
	db := &fakeDB{rows: map[string]string{}}
	slot := NewPostgresSlot(db, "token")

	_, ok, err := slot.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, slot.Save("one"))
	require.NoError(t, slot.Save("two"))
	token, ok, err := slot.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", token)
	assert.Len(t, db.rows, 1)

	require.NoError(t, slot.Clear())
	_, ok, err = slot.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresSlotErrors(t *testing.T) {
	db := &fakeDB{rows: map[string]string{}, err: errors.New("connection refused")}
	slot := NewPostgresSlot(db, "token")

	_, _, err := slot.Load()
	assert.ErrorContains(t, err, "connection refused")
	assert.Error(t, slot.Save("x"))
	assert.Error(t, slot.Clear())
}

func TestRunMigrationsAppliesEmbeddedFiles(t *testing.T) {
	db := &fakeDB{rows: map[string]string{}}

	require.NoError(t, RunMigrations(context.Background(), db, zap.NewNop()))

	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS session_slots")
}

func TestRunMigrationsSurfacesFailure(t *testing.T) {
	db := &fakeDB{err: errors.New("permission denied for schema public")}

	err := RunMigrations(context.Background(), db, zap.NewNop())
	assert.ErrorContains(t, err, "001_session_slots.sql")
}
