package config

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publicYaml = `
host: "127.0.0.1"
port: 9090
base_url: "https://news.example.com"
log_level: "debug"
log_json: true
secure_cookies: true
jwt_ttl_seconds: 7200
allowed_origins:
  - "https://news.example.com"
`

const privateYaml = `
pg:
  host: "localhost"
  port: 5432
  user: "inkpress"
  password: "pw"
  dbname: "inkpress"
smtp:
  server: "smtp.example.com"
  port: 465
  username: "postmaster"
  password: "pw"
  sender_name: "Inkpress <hello@news.example.com>"
  timeout: 10
jwt_key: "supersecret"
`

func writeConfigFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(dir, "public.yaml"), []byte(publicYaml), 0o600))
	require.NoError(t, os.WriteFile(path.Join(dir, "private.yaml"), []byte(privateYaml), 0o600))
	return dir
}

func TestMustLoad(t *testing.T) {
	cfg := MustLoad(writeConfigFolder(t))

	assert.Equal(t, "127.0.0.1", cfg.Public.Host)
	assert.Equal(t, 9090, cfg.Public.Port)
	assert.Equal(t, "https://news.example.com", cfg.Public.BaseUrl)
	assert.True(t, cfg.Public.SecureCookies)
	assert.Equal(t, []string{"https://news.example.com"}, cfg.Public.AllowedOrigins)

	assert.Equal(t, "inkpress", cfg.Private.Pg.Dbname)
	assert.Equal(t, "smtp.example.com", cfg.Private.Smtp.Server)
	assert.Equal(t, "supersecret", cfg.JwtKey())
	assert.Equal(t, 2*time.Hour, cfg.JwtTTL())
}

func TestMustLoadPanicsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(dir, "public.yaml"), []byte(publicYaml), 0o600))

	assert.Panics(t, func() { MustLoad(dir) })
}
