package sqlitestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/crud/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "items.db"), zerolog.Nop())
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func ids(items []model.Item) map[int64]bool {
	out := make(map[int64]bool, len(items))
	for _, it := range items {
		out[it.ID] = true
	}
	return out
}

func TestEnsureSchema_CreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "items.db")
	s := New(dbPath, zerolog.Nop())

	require.NoError(t, s.EnsureSchema(context.Background()))

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
}

func TestNew_DefaultPath(t *testing.T) {
	s := New("", zerolog.Nop())
	assert.Equal(t, DefaultPath, s.Path())
}

func TestEnsureSchema_KeepsRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Create(ctx, "keep me"))
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx))

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "keep me", items[0].Name)
}

func TestCreate_AssignsFreshID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Create(ctx, "one"))
	before, err := s.List(ctx)
	require.NoError(t, err)
	seen := ids(before)

	require.NoError(t, s.Create(ctx, "two"))
	after, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	var fresh []model.Item
	for _, it := range after {
		if !seen[it.ID] {
			fresh = append(fresh, it)
		}
	}
	require.Len(t, fresh, 1)
	assert.Equal(t, "two", fresh[0].Name)
	assert.NotZero(t, fresh[0].ID)
}

func TestCreate_KeepsNameVerbatim(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	names := []string{"", "  padded  ", "Robert'); DROP TABLE items;--", "ünïcødé ✔"}
	for _, n := range names {
		require.NoError(t, s.Create(ctx, n))
	}

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(names))

	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, it.Name)
	}
	assert.ElementsMatch(t, names, got)
}

func TestUpdate_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Create(ctx, "old"))
	items, err := s.List(ctx)
	require.NoError(t, err)
	id := items[0].ID

	require.NoError(t, s.Update(ctx, id, "new"))
	first, err := s.List(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, id, "new"))
	second, err := s.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []model.Item{{ID: id, Name: "new"}}, second)
}

func TestDelete_Final(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Create(ctx, "a"))
	require.NoError(t, s.Create(ctx, "b"))
	items, err := s.List(ctx)
	require.NoError(t, err)
	id := items[0].ID

	require.NoError(t, s.Delete(ctx, id))
	after, err := s.List(ctx)
	require.NoError(t, err)
	assert.False(t, ids(after)[id])
	assert.Len(t, after, 1)

	require.NoError(t, s.Delete(ctx, id), "second delete is a no-op")
	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, after, again)
}

func TestUpdateDelete_AbsentID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Create(ctx, "untouched"))
	before, err := s.List(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, 999999, "x"))
	require.NoError(t, s.Delete(ctx, 999999))

	after, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.Create(ctx, "Alpha"))
	items, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: 1, Name: "Alpha"}}, items)

	require.NoError(t, s.Update(ctx, 1, "Beta"))
	items, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: 1, Name: "Beta"}}, items)

	require.NoError(t, s.Delete(ctx, 1))
	items, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAutoincrement_DoesNotReuseIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Create(ctx, "first"))
	require.NoError(t, s.Delete(ctx, 1))
	require.NoError(t, s.Create(ctx, "second"))

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
}

func TestList_MissingTable(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "items.db"), zerolog.Nop())

	items, err := s.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatabase))
	assert.Empty(t, items)
}

func TestWrite_FailureWrapsErrDatabase(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "items.db"), zerolog.Nop())

	for name, err := range map[string]error{
		"create": s.Create(ctx, "x"),
		"update": s.Update(ctx, 1, "x"),
		"delete": s.Delete(ctx, 1),
	} {
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrDatabase, name)
		assert.Contains(t, err.Error(), name)
	}
}

func TestOpen_UnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := New(filepath.Join(blocker, "items.db"), zerolog.Nop())
	err := s.EnsureSchema(context.Background())
	assert.ErrorIs(t, err, ErrDatabase)
}
