package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
)

type countingIssuer struct {
	n   int
	err error
}

func (c *countingIssuer) NewSession(context.Context) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.n++
	return fmt.Sprintf("thread_%d", c.n), nil
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]Store{
		"file":  NewFileStore(filepath.Join(t.TempDir(), "threads_db.json")),
		"redis": NewRedisStore(rdb, ""),
	}
}

func TestResolveOrCreateCreatesOnceAndReuses(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			issuer := &countingIssuer{}
			created := 0
			m := NewManager(store, issuer, WithCreatedHook(func() { created++ }))

			first, err := m.ResolveOrCreate(ctx, "255700000001")
			require.NoError(t, err)
			assert.Equal(t, "thread_1", first)

			stored, found, err := store.Get(ctx, "255700000001")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, first, stored)

			second, err := m.ResolveOrCreate(ctx, "255700000001")
			require.NoError(t, err)
			assert.Equal(t, first, second)
			assert.Equal(t, 1, issuer.n)
			assert.Equal(t, 1, created)

			other, err := m.ResolveOrCreate(ctx, "255700000002")
			require.NoError(t, err)
			assert.Equal(t, "thread_2", other)
		})
	}
}

func TestResolveOrCreateIssuerFailure(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "threads_db.json"))
	m := NewManager(store, &countingIssuer{err: errors.New("401 unauthorized")})

	_, err := m.ResolveOrCreate(context.Background(), "7")
	require.Error(t, err)
	assert.Equal(t, errx.KindUpstreamUnavailable, errx.KindOf(err))

	_, found, err := store.Get(context.Background(), "7")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threads_db.json")
	require.NoError(t, NewFileStore(path).Put(context.Background(), "a", "thread_a"))
	require.NoError(t, NewFileStore(path).Put(context.Background(), "b", "thread_b"))

	handle, found, err := NewFileStore(path).Get(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "thread_a", handle)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"thread_a","b":"thread_b"}`, string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threads_db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFileStore(path).Get(context.Background(), "a")
	require.Error(t, err)
	assert.Equal(t, errx.KindStorage, errx.KindOf(err))
}

func TestRedisStoreUsesHash(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStore(rdb, "test:sessions")
	require.NoError(t, s.Put(context.Background(), "7", "thread_7"))
	assert.Equal(t, "thread_7", mr.HGet("test:sessions", "7"))

	mr.Close()
	_, _, err := s.Get(context.Background(), "7")
	require.Error(t, err)
	assert.Equal(t, errx.KindStorage, errx.KindOf(err))
}
