package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchmagic/internal/domain"
	"merchmagic/internal/imagecodec"
)

func sampleSession() *Session {
	s := New("sess-1", time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	s.Logo = &imagecodec.Payload{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}
	s.Mockup = &imagecodec.Payload{Data: []byte("mockup"), MIMEType: "image/webp"}
	s.Instruction = "make it blue"
	s.Status = domain.StatusError
	s.ErrorMessage = domain.MessageEditFailed
	return s
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	in := sampleSession()
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out.Status = domain.StatusIdle
	again, err := store.Load(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, again.Status)

	require.NoError(t, store.Delete(ctx, in.ID))
	_, err = store.Load(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStoreMissing(t *testing.T) {
	_, err := NewMemoryStore(0).Load(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func newTestRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), "", 0, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, WithPrefix("test:"), WithTTL(time.Minute))
	require.NoError(t, store.Ping(ctx))

	in := sampleSession()
	require.NoError(t, store.Save(ctx, in))
	assert.True(t, mr.Exists("test:sess-1"))

	out, err := store.Load(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Logo, out.Logo)
	assert.Equal(t, in.Mockup, out.Mockup)
	assert.Equal(t, in.Status, out.Status)
	assert.Equal(t, in.Instruction, out.Instruction)
	assert.Equal(t, in.ErrorMessage, out.ErrorMessage)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))

	require.NoError(t, store.Delete(ctx, in.ID))
	_, err = store.Load(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStoreExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, WithTTL(time.Minute))

	require.NoError(t, store.Save(ctx, sampleSession()))
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set("merchmagic:session:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
