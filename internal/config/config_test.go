package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  environment: test
  port: "8081"
  jwt_signing_key: secret
  invite_token_ttl: 1h
postgres:
  host: db
  user: jass
  password: pw
  db: jasstafel
scoring:
  multipliers:
    Eichle: 7
    Misère: 1
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "8081", conf.API.Port)
	assert.Equal(t, time.Hour, conf.API.InviteTokenTTL)
	assert.Equal(t, 7*24*time.Hour, conf.API.GroupInviteTTL, "default applies")
	assert.Equal(t, "debug", conf.Gin.Mode)
	assert.Equal(t, "host=db port=5432 user=jass password=pw dbname=jasstafel sslmode=disable", conf.Postgres.DSN())
	assert.Len(t, conf.Scoring.Multipliers, 2)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "9999")

	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "9999", conf.API.Port)
}

func TestLoad_DatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://jass:pw@db:5432/jasstafel?sslmode=require")

	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "postgres://jass:pw@db:5432/jasstafel?sslmode=require", conf.Postgres.DSN())
}

func TestLoad_MissingSigningKey(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  port: \"8080\"\n"))

	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

	assert.Error(t, err)
}
