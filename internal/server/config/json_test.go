package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"database_dsn":        "postgres://json/db",
		"jwt_secret_key":      "json-secret",
		"jwt_issuer":          "issuer-from-json",
		"access_token_ttl":    "45m",
		"refresh_token_ttl":   "336h",
		"clock_skew":          "60s",
		"min_hash_iterations": 50_000,
		"verbose_auth_errors": true,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		c := &Config{}
		c.LoadDefaults()
		parseJSON(c)

		assert.Equal(t, "postgres://json/db", c.DatabaseDSN)
		assert.Equal(t, "json-secret", c.JWTSecretKey)
		assert.Equal(t, "issuer-from-json", c.JWTIssuer)
		assert.Equal(t, 45*time.Minute, c.AccessTokenTTL)
		assert.Equal(t, 14*24*time.Hour, c.RefreshTokenTTL)
		assert.Equal(t, time.Minute, c.ClockSkew)
		assert.Equal(t, 50_000, c.MinHashIterations)
		assert.True(t, c.VerboseAuthErrors)
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"jwt_issuer": "only-issuer"})
		os.Args = []string{"testbin", "-c", partial}

		c := &Config{}
		c.LoadDefaults()
		parseJSON(c)

		assert.Equal(t, "only-issuer", c.JWTIssuer)
		assert.Equal(t, "dev-secret-key", c.JWTSecretKey)
		assert.Equal(t, 30*time.Minute, c.AccessTokenTTL)
	})

	t.Run("no flag means no file", func(t *testing.T) {
		os.Args = []string{"testbin"}

		c := &Config{}
		c.LoadDefaults()
		parseJSON(c)

		assert.Equal(t, "socialapi", c.JWTIssuer)
	})
}
