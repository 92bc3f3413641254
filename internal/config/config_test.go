package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	LoadDefaults()

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, ":8481", GetString("server.addr"))
	assert.Equal(t, 10*time.Second, GetDuration("server.readTimeout"))
	assert.Equal(t, "memory", GetString("storage.type"))
	assert.Equal(t, -2, GetInt("engine.minZoom"))
	assert.Equal(t, 4, GetInt("engine.maxZoom"))
	assert.Equal(t, 1.0, GetFloat("engine.maxBoundsViscosity"))
	assert.True(t, GetBool("engine.scrollWheelZoom"))
	assert.False(t, GetBool("otel.enabled"))
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"server": {"addr": ":9000"},
		"storage": {"type": "sqlite", "sqlitePath": "/tmp/test.db"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "floorview.cfg.json"), []byte(cfg), 0o644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, ":9000", GetString("server.addr"))

	storage := Storage()
	assert.Equal(t, "sqlite", storage.Type)
	assert.Equal(t, "/tmp/test.db", storage.SqlitePath)

	// Unset keys keep their defaults.
	assert.Equal(t, 4, GetInt("engine.maxZoom"))
}
