package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs Load from an empty directory so no stray payshare.yaml or
// .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, kv := range os.Environ() {
		if key, _, _ := strings.Cut(kv, "="); strings.HasPrefix(key, EnvPrefix+"_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "./data/payshare.db", cfg.DB.Path)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "payshare.yaml"), []byte(`
server:
  port: 9000
db:
  path: /var/lib/payshare.db
log:
  level: debug
redis:
  ttl: 30s
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PAYSHARE_LOG_FORMAT=json\n"), 0o600))
	// godotenv writes straight to the process environment; register the key
	// so it is removed again after the test.
	t.Setenv("PAYSHARE_LOG_FORMAT", "")
	os.Unsetenv("PAYSHARE_LOG_FORMAT")
	t.Setenv("PAYSHARE_SERVER_PORT", "9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.String("log-level", "warn", "")
	require.NoError(t, flags.Parse([]string{"--db=/tmp/flag.db"}))

	cfg, err := Load(Options{EnvFile: ".env", Flags: map[string]*pflag.Flag{
		"db.path":   flags.Lookup("db"),
		"log.level": flags.Lookup("log-level"),
	}})
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env beats file")
	assert.Equal(t, "/tmp/flag.db", cfg.DB.Path, "flag beats file")
	assert.Equal(t, "debug", cfg.Log.Level, "unset flags do not override")
	assert.Equal(t, "json", cfg.Log.Format, ".env feeds the environment")
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(Options{ConfigFile: "nope.yaml"})
	assert.Error(t, err)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	isolate(t)

	_, err := Load(Options{EnvFile: ".env.missing"})
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "port too low", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "empty db path", mutate: func(c *Config) { c.DB.Path = "" }, wantErr: "db.path"},
		{name: "zero redis ttl", mutate: func(c *Config) { c.Redis.TTL = 0 }, wantErr: "redis.ttl"},
		{name: "negative token ttl", mutate: func(c *Config) { c.Auth.TokenTTL = -time.Second }, wantErr: "auth.token_ttl"},
		{name: "unknown level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log level"},
		{name: "unknown format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			cfg, err := Load(Options{})
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateServe(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateServe())

	cfg.Auth.Secret = strings.Repeat("x", MinSecretLength)
	assert.NoError(t, cfg.ValidateServe())
}
