package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 10*time.Minute, cfg.Cache.DatasetTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{"map.accessToken"}, cfg.MapMissing())
}

func TestLoadReadsYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
database:
  host: db.internal
  port: 6543
auth:
  username: analyst
server:
  allowedorigins:
    - https://dash.example.com
cache:
  datasetttl: 2m
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("BIDASH_AUTH_PASSWORD", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/bidash")
	t.Setenv("MAPBOX_ACCESS_TOKEN", " pk.test ")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "postgres://u:p@db/bidash", cfg.Database.URL)
	assert.Equal(t, "analyst", cfg.Auth.Username)
	assert.Equal(t, "s3cret", cfg.Auth.Password)
	assert.Equal(t, "pk.test", cfg.Map.AccessToken)
	assert.Equal(t, 2*time.Minute, cfg.Cache.DatasetTTL)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.Server.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.MapMissing())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("database: [unterminated"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidateReportsMissingKeys(t *testing.T) {
	cfg := Defaults()

	err := cfg.Validate()

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"auth.username", "auth.password"}, missing.Keys)
	assert.True(t, IsMissing(err))
	assert.Contains(t, err.Error(), "auth.username")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " ", "c"}))
	assert.Nil(t, splitList(nil))
}
