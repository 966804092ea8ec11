package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisKV) {
	mr := miniredis.RunT(t)
	kv, err := NewRedisKV(context.Background(), mr.Addr(), "kinai:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return mr, kv
}

func TestRedisKV_SetGet(t *testing.T) {
	mr, kv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v"))

	got, found, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", got)

	raw, err := mr.Get("kinai:k")
	require.NoError(t, err)
	assert.Equal(t, "v", raw)
	assert.Zero(t, mr.TTL("kinai:k"))
}

func TestRedisKV_Missing(t *testing.T) {
	_, kv := setupTestRedis(t)

	got, found, err := kv.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got)
}

func TestRedisKV_CollectionsRoundTrip(t *testing.T) {
	_, kv := setupTestRedis(t)
	ctx := context.Background()
	c := NewCollections(kv, zerolog.Nop())

	require.NoError(t, c.SavePatients(ctx, samplePatients()))
	require.NoError(t, c.SaveSessions(ctx, sampleSessions()))

	patients, sessions := c.Load(ctx)
	assert.Equal(t, samplePatients(), patients)
	assert.Equal(t, sampleSessions(), sessions)

	st, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "redis", st.Backend)
	assert.Zero(t, st.SizeBytes)
}

func TestRedisKV_ServerDownLoadsEmpty(t *testing.T) {
	mr, kv := setupTestRedis(t)
	c := NewCollections(kv, zerolog.Nop())
	require.NoError(t, c.SavePatients(context.Background(), samplePatients()))

	mr.Close()

	patients, sessions := c.Load(context.Background())
	assert.Empty(t, patients)
	assert.Empty(t, sessions)
	assert.Error(t, c.SaveSessions(context.Background(), nil))
}

func TestNewRedisKV_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisKV(context.Background(), addr, "")
	assert.Error(t, err)
}
