package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file
jwt:
  secret: s3cret
import:
  club_key: fc_barcelona
  club_display_name: FC Barcelona
  merge:
    cards: sum
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file", cfg.Postgres.DSN)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 24*time.Hour, cfg.JWT.DefaultTTL)
	assert.Equal(t, "fc_barcelona", cfg.Import.ClubKey)
	assert.Equal(t, "FC Barcelona", cfg.Import.ClubDisplayName)
	assert.Equal(t, 0.85, cfg.Import.AutoConfirm)
	assert.Equal(t, 0.4, cfg.Import.MinSimilarity)
	assert.Equal(t, 5, cfg.Import.MaxSuggestions)
	assert.Equal(t, "sum", cfg.Import.Merge.Goals)
	assert.Equal(t, "sum", cfg.Import.Merge.Cards)
	assert.Equal(t, "max", cfg.Import.Merge.Minutes)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file
`)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("IMPORT_AUTO_CONFIRM", "0.9")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 0.9, cfg.Import.AutoConfirm)
}

func TestLoadConfig_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JWT_SECRET", "secret")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, "real_madrid", cfg.Import.ClubKey)
	assert.Equal(t, []string{"realmadrid"}, cfg.Import.ClubAliases)
}

func TestImportConfig_Location(t *testing.T) {
	assert.Equal(t, "Europe/Madrid", ImportConfig{Timezone: "Europe/Madrid"}.Location().String())
	assert.Equal(t, time.UTC, ImportConfig{Timezone: "Nowhere/Invalid"}.Location())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Equal(t, "matchdesk", cfg.NATS.SubjectPrefix)
	assert.Equal(t, "Real Madrid", cfg.Import.ClubDisplayName)
	assert.Equal(t, "replace", cfg.Import.Merge.Advanced)
}
