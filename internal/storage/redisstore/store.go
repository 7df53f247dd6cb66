// Package redisstore persists the message log in redis: one string key per
// message and one sorted set per session ordered by creation time.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

const (
	defaultPrefix = "fredke:"
	maxTxAttempts = 5
)

// Store implements chat.Store on a redis client.
type Store struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithPrefix namespaces every key written by the store.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New pings the server and returns a ready store.
func New(ctx context.Context, client *redis.Client, opts ...Option) (*Store, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	s := &Store{
		client: client,
		prefix: defaultPrefix,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create allocates an id with INCR and writes the record and its index atomically.
func (s *Store) Create(ctx context.Context, msg chat.NewMessage) (chat.Message, error) {
	if err := msg.Validate(); err != nil {
		return chat.Message{}, chat.NewStoreError("create", err)
	}

	id, err := s.client.Incr(ctx, s.sequenceKey()).Result()
	if err != nil {
		return chat.Message{}, chat.NewStoreError("create", fmt.Errorf("allocate id: %w", err))
	}

	stored := chat.Message{
		ID:            id,
		Content:       msg.Content,
		Role:          msg.Role,
		SessionID:     msg.SessionID,
		GeneratedCode: msg.GeneratedCode,
		CreatedAt:     s.now(),
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return chat.Message{}, chat.NewStoreError("create", fmt.Errorf("marshal message: %w", err))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.messageKey(id), data, 0)
		pipe.ZAdd(ctx, s.sessionKey(msg.SessionID), &redis.Z{
			Score:  score(stored.CreatedAt),
			Member: member(id),
		})
		return nil
	})
	if err != nil {
		return chat.Message{}, chat.NewStoreError("create", err)
	}

	if stored.GeneratedCode != nil {
		site := *stored.GeneratedCode
		stored.GeneratedCode = &site
	}
	return stored, nil
}

// ListBySession reads the session index then fetches every record in one MGET.
func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]chat.Message, error) {
	members, err := s.client.ZRange(ctx, s.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, chat.NewStoreError("list", err)
	}
	if len(members) == 0 {
		return []chat.Message{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = s.prefix + "message:" + m
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, chat.NewStoreError("list", err)
	}

	messages := make([]chat.Message, 0, len(results))
	for i, result := range results {
		raw, ok := result.(string)
		if !ok {
			// index entry whose record was removed concurrently
			continue
		}
		var msg chat.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, chat.NewStoreError("list", fmt.Errorf("unmarshal %s: %w", keys[i], err))
		}
		messages = append(messages, msg)
	}
	chat.SortMessages(messages)
	return messages, nil
}

// ClearSession removes the index and every record under WATCH so a
// concurrent Create either lands before the clear or after it.
func (s *Store) ClearSession(ctx context.Context, sessionID string) error {
	key := s.sessionKey(sessionID)

	clearTx := func(tx *redis.Tx) error {
		members, err := tx.ZRange(ctx, key, 0, -1).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, m := range members {
				pipe.Del(ctx, s.prefix+"message:"+m)
			}
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, clearTx, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return chat.NewStoreError("clear", err)
		}
	}
	return chat.NewStoreError("clear", fmt.Errorf("session %s changed during clear %d times", sessionID, maxTxAttempts))
}

// Delete removes one record and its index entry.
func (s *Store) Delete(ctx context.Context, id int64) error {
	raw, err := s.client.Get(ctx, s.messageKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return chat.NewStoreError("delete", err)
	}

	var msg chat.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return chat.NewStoreError("delete", fmt.Errorf("unmarshal message %d: %w", id, err))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.messageKey(id))
		pipe.ZRem(ctx, s.sessionKey(msg.SessionID), member(id))
		return nil
	})
	return chat.NewStoreError("delete", err)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) sequenceKey() string {
	return s.prefix + "message:seq"
}

func (s *Store) messageKey(id int64) string {
	return s.prefix + "message:" + member(id)
}

func (s *Store) sessionKey(sessionID string) string {
	return s.prefix + "session:" + sessionID + ":messages"
}

// member zero-pads ids so equal scores fall back to numeric order.
func member(id int64) string {
	return fmt.Sprintf("%020d", id)
}

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}
