package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	for _, key := range []string{"MRP_WORKERS", "MRP_LEVEL_POLICY", "MRP_DB_PATH", "LOGGER_LEVEL", "LOGGER_AS_JSON"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	require.NoError(t, Load())

	assert.Equal(t, "info", C().Logger.Level())
	assert.False(t, C().Logger.AsJSON())
	assert.Equal(t, 0, C().Planner.Workers())
	assert.Equal(t, "strict", C().Planner.LevelPolicy())
	assert.Equal(t, "mrp.db", C().Store.DBPath())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("MRP_WORKERS", "6")
	t.Setenv("MRP_LEVEL_POLICY", "descending")
	t.Setenv("MRP_INCLUDE_COVERED", "true")
	t.Setenv("LOGGER_AS_JSON", "true")

	require.NoError(t, Load())

	assert.Equal(t, 6, C().Planner.Workers())
	assert.Equal(t, "descending", C().Planner.LevelPolicy())
	assert.True(t, C().Planner.IncludeCovered())
	assert.True(t, C().Logger.AsJSON())
}

func TestLoad_DotenvWhenLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MRP_DB_PATH=/tmp/from-dotenv.db\n"), 0o600))

	t.Setenv("APP_ENV", "local")
	t.Setenv("MRP_DB_PATH", "")
	require.NoError(t, os.Unsetenv("MRP_DB_PATH"))
	t.Cleanup(func() { _ = os.Unsetenv("MRP_DB_PATH") })

	require.NoError(t, Load(path))

	assert.Equal(t, "/tmp/from-dotenv.db", C().Store.DBPath())
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("MRP_WORKERS", "many")

	err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.Load Planner")
}
