package session

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/EasterCompany/dex-voice-service/cache"
	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{12}$`)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(context.Background(), &config.RedisConfig{
		Addr:      mr.Addr(),
		KeyPrefix: "test:",
	})
	require.NoError(t, err)
	store := NewRedisStore(client, ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

// storeContract runs the same behaviour checks against every Store.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("mints id for empty and unknown", func(t *testing.T) {
		store := newStore(t)
		a, err := store.GetOrCreate(ctx, "")
		require.NoError(t, err)
		assert.Regexp(t, idPattern, a.ID)
		assert.Empty(t, a.History)
		assert.Empty(t, a.LastReco)

		b, err := store.GetOrCreate(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.NotEqual(t, "does-not-exist", b.ID)
		assert.NotEqual(t, a.ID, b.ID)

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("returns existing session", func(t *testing.T) {
		store := newStore(t)
		s, err := store.GetOrCreate(ctx, "")
		require.NoError(t, err)
		require.NoError(t, store.PushTurn(ctx, s, RoleUser, "hello"))
		require.NoError(t, store.SetLastReco(ctx, s, "Inception"))

		again, err := store.GetOrCreate(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, again.ID)
		assert.Equal(t, []Turn{{Role: RoleUser, Text: "hello"}}, again.History)
		assert.Equal(t, "Inception", again.LastReco)
	})

	t.Run("history bound", func(t *testing.T) {
		store := newStore(t)
		s, err := store.GetOrCreate(ctx, "")
		require.NoError(t, err)

		for i := 0; i < 30; i++ {
			role := RoleUser
			if i%2 == 1 {
				role = RoleAssistant
			}
			require.NoError(t, store.PushTurn(ctx, s, role, fmt.Sprintf("turn %d", i)))
			assert.LessOrEqual(t, len(s.History), MaxHistory)

			stored, err := store.Get(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, s.History, stored.History)
		}

		require.Len(t, s.History, MaxHistory)
		for i, turn := range s.History {
			assert.Equal(t, fmt.Sprintf("turn %d", 30-MaxHistory+i), turn.Text)
		}
	})

	t.Run("last reco overwritten", func(t *testing.T) {
		store := newStore(t)
		s, err := store.GetOrCreate(ctx, "")
		require.NoError(t, err)
		require.NoError(t, store.SetLastReco(ctx, s, "Inception"))
		require.NoError(t, store.SetLastReco(ctx, s, "Knives Out"))

		stored, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Knives Out", stored.LastReco)
	})

	t.Run("get unknown", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestMemoryStore_SnapshotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)

	s.History = append(s.History, Turn{Role: RoleUser, Text: "local only"})
	stored, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.History)
}

func TestMemoryStore_PushUnknown(t *testing.T) {
	store := NewMemoryStore()
	err := store.PushTurn(context.Background(), &Session{ID: "ghost"}, RoleUser, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		store, _ := newRedisStore(t, 0)
		return store
	})
}

func TestRedisStore_Layout(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)

	s, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	require.NoError(t, store.PushTurn(ctx, s, RoleUser, "hi"))
	require.NoError(t, store.SetLastReco(ctx, s, "Inception"))

	assert.Equal(t, "Inception", mr.HGet("test:session:"+s.ID, "last_reco"))
	items, err := mr.List("test:session:" + s.ID + ":history")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"role":"user","text":"hi"}`}, items)

	ids, err := store.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{s.ID}, ids)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	s, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	require.NoError(t, store.PushTurn(ctx, s, RoleUser, "hi"))
	assert.Equal(t, time.Minute, mr.TTL("test:session:"+s.ID))
	assert.Equal(t, time.Minute, mr.TTL("test:session:"+s.ID+":history"))

	mr.FastForward(2 * time.Minute)

	fresh, err := store.GetOrCreate(ctx, s.ID)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, fresh.ID, "expired session must be replaced")
}

func TestRedisStore_CorruptTurn(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)
	s, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)

	_, err = mr.Push("test:session:"+s.ID+":history", "{not json")
	require.NoError(t, err)

	_, err = store.Get(ctx, s.ID)
	assert.Error(t, err)
}

func TestSession_LastText(t *testing.T) {
	s := &Session{History: []Turn{
		{RoleUser, "one"}, {RoleAssistant, "a1"}, {RoleUser, "two"},
	}}

	text, ok := s.LastText(RoleUser, 0)
	assert.True(t, ok)
	assert.Equal(t, "two", text)

	text, ok = s.LastText(RoleUser, 1)
	assert.True(t, ok)
	assert.Equal(t, "one", text)

	_, ok = s.LastText(RoleUser, 2)
	assert.False(t, ok)

	text, ok = s.LastText(RoleAssistant, 0)
	assert.True(t, ok)
	assert.Equal(t, "a1", text)
}

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Regexp(t, idPattern, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)
}
