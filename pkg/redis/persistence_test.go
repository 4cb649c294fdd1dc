package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"CommunityCompass/pkg/voice"

	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

func (f *fakeRedis) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.values, key)
	return nil
}

func (f *fakeRedis) Ping(context.Context) error { return f.err }

var _ voice.Persistence = (*Persistence)(nil)

func TestPersistenceNamespacesClients(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	alice := NewPersistence(client, "alice")
	bob := NewPersistence(client, "bob")

	require.NoError(t, alice.Write(ctx, voice.CustomizationsKey, `{"/map":["take me there"]}`))

	value, ok, err := alice.Read(ctx, voice.CustomizationsKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"/map":["take me there"]}`, value)

	_, ok, err = bob.Read(ctx, voice.CustomizationsKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.Contains(t, client.values, "community-compass:alice:voice-command-customizations")

	require.NoError(t, alice.Remove(ctx, voice.CustomizationsKey))
	_, ok, err = alice.Read(ctx, voice.CustomizationsKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPersistenceWrapsErrors(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	p := NewPersistence(client, "alice")

	_, _, err := p.Read(ctx, voice.CustomizationsKey)
	require.ErrorIs(t, err, client.err)
	require.ErrorIs(t, p.Write(ctx, voice.CustomizationsKey, "{}"), client.err)
	require.ErrorIs(t, p.Remove(ctx, voice.CustomizationsKey), client.err)
}

func TestPersistenceBacksCustomizations(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()

	custom := voice.NewCustomizations(NewPersistence(client, "alice"), nil)
	custom.Load(ctx)
	require.NoError(t, custom.Add(ctx, "/map", "  Take Me There "))

	reloaded := voice.NewCustomizations(NewPersistence(client, "alice"), nil)
	require.Equal(t, map[string][]string{"/map": {"take me there"}}, reloaded.Load(ctx))
}
