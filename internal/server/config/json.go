package config

import (
	"encoding/json"
	"os"

	"github.com/mkragh/socialapi/internal/flagx"
	"github.com/mkragh/socialapi/internal/timex"
)

// jsonConfig is the intermediate shape used only for reading JSON
// configuration files. Duration fields accept both "30m" strings and
// integer nanoseconds; after unmarshalling, values are copied into the
// runtime Config.
type jsonConfig struct {
	DatabaseDSN        *string         `json:"database_dsn"`
	JWTSecretKey       *string         `json:"jwt_secret_key"`
	JWTIssuer          *string         `json:"jwt_issuer"`
	JWTAudience        *string         `json:"jwt_audience"`
	AccessTokenTTL     *timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL    *timex.Duration `json:"refresh_token_ttl"`
	ClockSkew          *timex.Duration `json:"clock_skew"`
	MinHashIterations  *int            `json:"min_hash_iterations"`
	VerboseAuthErrors  *bool           `json:"verbose_auth_errors"`
	InactiveUserMaxAge *timex.Duration `json:"inactive_user_max_age"`
	CleanupInterval    *timex.Duration `json:"cleanup_interval"`
}

// parseJSON overlays values from the JSON file named by -c/-config, if any.
// Absent fields keep their current values. An unreadable or invalid file
// panics: a broken explicit config is a deployment error, not a condition
// to limp through.
func parseJSON(config *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.JWTSecretKey != nil {
		config.JWTSecretKey = *c.JWTSecretKey
	}
	if c.JWTIssuer != nil {
		config.JWTIssuer = *c.JWTIssuer
	}
	if c.JWTAudience != nil {
		config.JWTAudience = *c.JWTAudience
	}
	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL != nil {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.ClockSkew != nil {
		config.ClockSkew = c.ClockSkew.Duration
	}
	if c.MinHashIterations != nil {
		config.MinHashIterations = *c.MinHashIterations
	}
	if c.VerboseAuthErrors != nil {
		config.VerboseAuthErrors = *c.VerboseAuthErrors
	}
	if c.InactiveUserMaxAge != nil {
		config.InactiveUserMaxAge = c.InactiveUserMaxAge.Duration
	}
	if c.CleanupInterval != nil {
		config.CleanupInterval = c.CleanupInterval.Duration
	}
}
