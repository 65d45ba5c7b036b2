package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/database"
	"github.com/jask/cardcraft/internal/database/repository"
	"github.com/jask/cardcraft/internal/prefs"
)

func sampleCards() []card.Card {
	return []card.Card{
		{ID: "card-1", Name: "Ada Lovelace", Title: "Engineer", Template: card.TemplateNeon, ColorTheme: card.ColorPurple, CreatedAt: 10, UpdatedAt: 20},
		{ID: "card-2", Name: "Grace Hopper", Email: "grace@navy.mil", Template: card.TemplateModern, ColorTheme: card.ColorCyan, CreatedAt: 30, UpdatedAt: 30},
	}
}

func TestSQLiteRoundTripAcrossRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cards.db")

	db, err := database.OpenAndMigrate(path)
	require.NoError(t, err)
	s := New(repository.NewKVRepo(db), nil)
	require.NoError(t, s.SaveCards(ctx, sampleCards()))
	require.NoError(t, s.SetHasSeenOnboarding(ctx, true))
	require.NoError(t, db.Close())

	db, err = database.OpenAndMigrate(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s = New(repository.NewKVRepo(db), nil)

	require.Equal(t, sampleCards(), s.Cards(ctx))
	require.True(t, s.HasSeenOnboarding(ctx))
}

func TestFileRoundTripAcrossRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, New(prefs.FileStore{Dir: dir}, nil).SaveCards(ctx, sampleCards()))
	require.NoError(t, New(prefs.FileStore{Dir: dir}, nil).SetHasSeenOnboarding(ctx, true))

	s := New(prefs.FileStore{Dir: dir}, nil)
	require.Equal(t, sampleCards(), s.Cards(ctx))
	require.True(t, s.HasSeenOnboarding(ctx))
}

func TestDefaultsWhenAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(NewMemory(), nil)
	require.NotNil(t, s.Cards(ctx))
	require.Empty(t, s.Cards(ctx))
	require.False(t, s.HasSeenOnboarding(ctx))
	require.Equal(t, 7, Load(ctx, s, "missing", 7))
}

func TestCorruptValuesFallBackToDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()
	s := New(mem, nil)

	cases := map[string][]byte{
		KeyCards:      []byte(`{not json`),
		KeyOnboarding: []byte(`"yes"`),
	}
	for k, v := range cases {
		require.NoError(t, mem.Set(ctx, k, v))
	}
	require.Empty(t, s.Cards(ctx))
	require.False(t, s.HasSeenOnboarding(ctx))

	// an unknown enum value makes the whole collection unreadable
	require.NoError(t, mem.Set(ctx, KeyCards, []byte(`[{"id":"card-1","template":"baroque","colorTheme":"cyan"}]`)))
	require.Empty(t, s.Cards(ctx))

	// so does a card with no template or color theme at all
	require.NoError(t, mem.Set(ctx, KeyCards, []byte(`[{"id":"card-1","name":"Ada"}]`)))
	require.Empty(t, s.Cards(ctx))
}

type failingBackend struct{ err error }

func (f failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Set(context.Context, string, []byte) error   { return f.err }

func TestBackendErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("disk gone")
	s := New(failingBackend{err: boom}, nil)

	require.Empty(t, s.Cards(ctx))
	require.False(t, s.HasSeenOnboarding(ctx))
	require.ErrorIs(t, s.SaveCards(ctx, sampleCards()), boom)
}

func TestSaveNilCardsWritesEmptyArray(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, New(mem, nil).SaveCards(ctx, nil))
	raw, err := mem.Get(ctx, KeyCards)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

func TestClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for name, backend := range map[string]Backend{
		"memory": NewMemory(),
		"file":   prefs.FileStore{Dir: t.TempDir()},
	} {
		s := New(backend, nil)
		require.NoError(t, s.SaveCards(ctx, sampleCards()), name)
		require.NoError(t, s.SetHasSeenOnboarding(ctx, true), name)

		require.NoError(t, s.Clear(ctx), name)
		require.Empty(t, s.Cards(ctx), name)
		require.False(t, s.HasSeenOnboarding(ctx), name)
		require.NoError(t, s.Clear(ctx), "clearing twice is fine for %s", name)
	}

	require.ErrorIs(t, New(failingBackend{}, nil).Clear(ctx), ErrNotErasable)
}
