package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	entries map[string]string
	ttls    map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.entries[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.entries[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeStore) SessionKey(sessionID string) string {
	return "session:" + sessionID
}

func newTestManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: time.Hour}
}

func TestRegisterAndCheckSession(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, mgr.Register(ctx, "sess-1", userID))
	assert.Equal(t, userID.String(), store.entries["session:sess-1"])
	assert.Equal(t, time.Hour, store.ttls["session:sess-1"])

	live, err := mgr.HasSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, live)

	live, err = mgr.HasSession(ctx, "sess-unknown")
	require.NoError(t, err)
	assert.False(t, live)

	live, err = mgr.HasSession(ctx, "")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestRegisterValidation(t *testing.T) {
	mgr := newTestManager(newFakeStore())
	ctx := context.Background()

	assert.Error(t, mgr.Register(ctx, "", uuid.New()))
	assert.Error(t, mgr.Register(ctx, "sess-1", uuid.Nil))
}

func TestRevokeEndsSession(t *testing.T) {
	store := newFakeStore()
	mgr := newTestManager(store)
	ctx := context.Background()

	require.NoError(t, mgr.Register(ctx, "sess-1", uuid.New()))
	require.NoError(t, mgr.Revoke(ctx, "sess-1"))

	live, err := mgr.HasSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, live)

	assert.Error(t, mgr.Revoke(ctx, ""))
}

func TestNewSessionIDIsUUID(t *testing.T) {
	id := NewSessionID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewSessionID())
}
