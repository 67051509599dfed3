package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
database:
  host: db.example.com
  port: 5432
  user: app
  password: secret
  dbname: contenthub
`

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.Sync.MaxItems)
	assert.Equal(t, time.Hour, cfg.Sync.Interval)
	assert.Equal(t, 5*time.Second, cfg.Cache.ReadTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "require", cfg.Database.SSLMode)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_PEXELS_KEY", "expanded-key")

	cfg, err := Load(writeConfig(t, minimalConfig+`
providers:
  pexels:
    enabled: true
    api_key: ${TEST_PEXELS_KEY}
    collection_id: col-1
`))
	require.NoError(t, err)
	assert.Equal(t, "expanded-key", cfg.Providers.Pexels.APIKey)
}

func TestLoad_MissingDatabaseHost(t *testing.T) {
	_, err := Load(writeConfig(t, `
database:
  user: app
  dbname: contenthub
`))

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "database.host")
}

func TestLoad_EnabledProviderRequiresCredentials(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
providers:
  youtube:
    enabled: true
    channel_id: UCabc
`))

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "providers.youtube.api_key")
}

func TestLoad_DisabledProviderNeedsNothing(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
providers:
  pexels:
    enabled: false
`))
	require.NoError(t, err)
	assert.False(t, cfg.Providers.Pexels.Enabled)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "db", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=db sslmode=disable", d.DSN())
}

func TestLoad_CategoryOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
sync:
  categories:
    cricket: [wicket, innings]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"wicket", "innings"}, cfg.Sync.Categories["cricket"])
}
