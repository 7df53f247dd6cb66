// Package storage selects the message store backend from configuration.
package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/zhouzirui/fredke/backend/internal/config"
	"github.com/zhouzirui/fredke/backend/internal/model/chat"
	"github.com/zhouzirui/fredke/backend/internal/storage/redisstore"
	"github.com/zhouzirui/fredke/backend/internal/storage/sqlstore"
)

// Backend is a chat.Store with a connection lifecycle.
type Backend interface {
	chat.Store
	Close() error
}

type memoryBackend struct {
	*chat.MemoryStore
}

func (memoryBackend) Close() error { return nil }

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		log.Println("[store] using in-memory message store")
		return memoryBackend{chat.NewMemoryStore()}, nil
	case config.DriverPostgres, config.DriverSQLite:
		store, err := sqlstore.Open(cfg.Driver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
		}
		log.Printf("[store] using %s message store", cfg.Driver)
		return store, nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store, err := redisstore.New(ctx, client)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		log.Printf("[store] using redis message store at %s", cfg.RedisAddr)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
