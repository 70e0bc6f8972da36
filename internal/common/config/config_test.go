package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnv(t *testing.T) {
	t.Setenv("CL_TEST_PORT", "9090")

	in := []byte("port: ${CL_TEST_PORT:8080}\nsecret: ${CL_TEST_MISSING:fallback}\nempty: ${CL_TEST_ALSO_MISSING}\n")
	out := string(resolveEnv(in))

	assert.Contains(t, out, "port: 9090")
	assert.Contains(t, out, "secret: fallback")
	assert.Contains(t, out, "empty: \n")
}

func TestLoadConfigDefaultsAndValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apiserver.yaml")
	yaml := `
port: 8080
jwt:
  secret_key: ${JWT_SECRET_KEY:0123456789abcdef0123456789abcdef}
  duration: 24h
realtime:
  ping_interval: 10s
  ping_timeout: 30s
`
	assert.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, cfgPath, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, path, cfgPath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Realtime.PingInterval)
	assert.Equal(t, 30*time.Second, cfg.Realtime.PingTimeout)

	// defaults filled in
	assert.Equal(t, 10*time.Second, cfg.Realtime.ConnectTimeout)
	assert.Equal(t, cfg.Realtime.ConnectTimeout, cfg.Realtime.WriteTimeout)
	assert.Equal(t, 256, cfg.Realtime.SendBuffer)
	assert.Equal(t, int64(64*1024), cfg.Realtime.MaxMessageSize)
	assert.Equal(t, 5, cfg.Realtime.ReconnectAttempts)
	assert.Equal(t, 2*time.Second, cfg.Realtime.ReconnectDelay)
}

func TestLoadConfigRejectsBadHeartbeat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apiserver.yaml")
	yaml := `
realtime:
  ping_interval: 30s
  ping_timeout: 30s
`
	assert.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, _, err := LoadConfig(path)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrPingTimeoutTooSmall)
}

func TestDatabaseDSN(t *testing.T) {
	pg := DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", DBName: "campolink", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/campolink?sslmode=disable", pg.GetDSN())

	my := DatabaseConfig{Type: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", DBName: "campolink"}
	assert.Equal(t, "u:p@tcp(db:3306)/campolink?charset=utf8mb4&parseTime=True&loc=Local", my.GetDSN())

	lite := DatabaseConfig{Type: "sqlite", DBName: filepath.Join(t.TempDir(), "data", "campolink.db")}
	assert.Equal(t, lite.DBName, lite.GetDSN())

	unknown := DatabaseConfig{Type: "oracle"}
	assert.Equal(t, "", unknown.GetDSN())
}
