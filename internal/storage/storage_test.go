package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/fredke/backend/internal/config"
	"github.com/zhouzirui/fredke/backend/internal/model/chat"
)

func TestOpenMemory(t *testing.T) {
	backend, err := Open(context.Background(), config.StoreConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.Create(context.Background(), chat.NewMessage{Content: "hi", Role: chat.RoleUser, SessionID: "s"})
	assert.NoError(t, err)
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.StoreConfig{Driver: config.DriverSQLite, DatabaseURL: filepath.Join(t.TempDir(), "fredke.db")}
	backend, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, backend.Close())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mongo"})
	assert.Error(t, err)
}
