package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Parse("")
	require.NoError(t, err)

	assert.Equal(t, StorageMongo, cfg.StorageDriver)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "tonotes", cfg.Mongo.DatabaseName)
	assert.Equal(t, "notes", cfg.Mongo.NotesCollection)
	assert.Equal(t, "users", cfg.Mongo.UsersCollection)
	assert.Equal(t, uint64(100), cfg.Mongo.MaxPoolSize)
	assert.Equal(t, uint64(10), cfg.Mongo.MinPoolSize)
	assert.Equal(t, 60*time.Second, cfg.Mongo.MaxConnIdleTime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.NotesUniqueIndex)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.JWT.SecretKey)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MONGO_DB", "tonotes_test")
	t.Setenv("NOTES_UNIQUE_INDEX", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	t.Setenv("MEMORY_SEED_USERS", "alice,bob")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Parse("")
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "tonotes_test", cfg.Mongo.DatabaseName)
	assert.True(t, cfg.NotesUniqueIndex)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Memory.SeedUsers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseYAMLFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte(`storage_driver: memory
http:
  addr: ":7070"
mongo:
  db: fromfile
log:
  level: warn
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "fromfile", cfg.Mongo.DatabaseName)
	assert.Equal(t, "warn", cfg.Log.Level)
	// defaults still apply to keys the file leaves out
	assert.Equal(t, "notes", cfg.Mongo.NotesCollection)
}

func TestParseRejectsUnknownStorage(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "bolt")

	_, err := Parse("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestParseRejectsUnknownLogLevel(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Parse("")
	require.Error(t, err)
}
