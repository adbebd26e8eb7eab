package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test; it stands in for
// t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(old))
	})
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, "data/db.json", cfg.Database.Path)
	assert.Equal(t, 8090, cfg.Monitoring.HealthCheckPort)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)

	// The data directory is created up front.
	info, err := os.Stat("data")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("TEST_DATA_PATH", "custom/data.json")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":8081"
database:
  path: "${TEST_DATA_PATH}"
rate_limit:
  requests_per_second: 2.5
  burst: 4
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Address)
	assert.Equal(t, "custom/data.json", cfg.Database.Path)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 4, cfg.RateLimit.Burst)
}

func TestLoad_PortEnvFallback(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Address)
}
