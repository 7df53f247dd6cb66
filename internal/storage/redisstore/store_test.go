package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
	"github.com/zhouzirui/fredke/backend/internal/storage/storetest"
)

func TestMemberOrdersLexicographically(t *testing.T) {
	assert.Equal(t, "00000000000000000009", member(9))
	assert.Less(t, member(9), member(10))
	assert.Less(t, member(99), member(100))
}

func TestScoreKeepsMicrosecondPrecision(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := score(base)
	b := score(base.Add(time.Microsecond))
	assert.Less(t, a, b)
}

func TestKeys(t *testing.T) {
	s := &Store{prefix: "p:"}
	assert.Equal(t, "p:message:seq", s.sequenceKey())
	assert.Equal(t, "p:message:00000000000000000042", s.messageKey(42))
	assert.Equal(t, "p:session:s1:messages", s.sessionKey("s1"))
}

func newMiniredisStore(t *testing.T) *Store {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := New(context.Background(), client)
	require.NoError(t, err)
	return store
}

func TestRedisStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) chat.Store {
		return newMiniredisStore(t)
	})
}

func TestRedisStoreClearRemovesRecordKeys(t *testing.T) {
	store := newMiniredisStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, chat.NewMessage{Content: "a", Role: chat.RoleUser, SessionID: "s1"})
	require.NoError(t, err)
	_, err = store.Create(ctx, chat.NewMessage{Content: "b", Role: chat.RoleUser, SessionID: "s2"})
	require.NoError(t, err)

	require.NoError(t, store.ClearSession(ctx, "s1"))

	exists, err := store.client.Exists(ctx, store.messageKey(first.ID), store.sessionKey("s1")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	other, err := store.ListBySession(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestRedisStoreNewFailsWithoutServer(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	defer client.Close()

	_, err := New(context.Background(), client)
	assert.Error(t, err)
}

// TestRedisStoreContractLive runs against a live server when REDIS_TEST_ADDR is set.
func TestRedisStoreContractLive(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	storetest.Run(t, func(t *testing.T) chat.Store {
		client := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { _ = client.Close() })

		store, err := New(context.Background(), client, WithPrefix("fredke-test:"+uuid.NewString()+":"))
		require.NoError(t, err)
		return store
	})
}
