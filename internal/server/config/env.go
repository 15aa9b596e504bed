package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment, after loading a
// local .env file if one exists. A missing .env is normal in container
// deployments where the environment is injected.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		config.JWTSecretKey = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		config.JWTIssuer = v
	}
	if v := os.Getenv("JWT_AUDIENCE"); v != "" {
		config.JWTAudience = v
	}
	if d, ok := envDuration("ACCESS_TOKEN_TTL"); ok {
		config.AccessTokenTTL = d
	}
	if d, ok := envDuration("REFRESH_TOKEN_TTL"); ok {
		config.RefreshTokenTTL = d
	}
	if d, ok := envDuration("CLOCK_SKEW"); ok {
		config.ClockSkew = d
	}
	if v := os.Getenv("MIN_HASH_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.MinHashIterations = n
		}
	}
	if v := os.Getenv("VERBOSE_AUTH_ERRORS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.VerboseAuthErrors = b
		}
	}
	if d, ok := envDuration("INACTIVE_USER_MAX_AGE"); ok {
		config.InactiveUserMaxAge = d
	}
	if d, ok := envDuration("CLEANUP_INTERVAL"); ok {
		config.CleanupInterval = d
	}
}

func envDuration(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
