package config

import (
	"flag"
	"os"
	"time"

	"github.com/mkragh/socialapi/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-j string   JWT issuer
//	-u string   JWT audience
//	-t int      access token lifetime, minutes
//	-r int      refresh token lifetime, days
//	-k int      clock-skew allowance, seconds
//	-m int      minimum acceptable password-hash iteration count
//	-v          verbose auth failure messages (development only)
//
// os.Args is first filtered to only the flags handled here, so other
// components (and the test binary) can define their own flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-j", "-u", "-t", "-r", "-k", "-m", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecretKey, "s", config.JWTSecretKey, "jwt signing key")
	fs.StringVar(&config.JWTIssuer, "j", config.JWTIssuer, "jwt issuer")
	fs.StringVar(&config.JWTAudience, "u", config.JWTAudience, "jwt audience")

	accessMinutes := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token lifetime (minutes)")
	refreshDays := fs.Int("r", int(config.RefreshTokenTTL.Hours()/24), "refresh token lifetime (days)")
	skewSeconds := fs.Int("k", int(config.ClockSkew.Seconds()), "clock-skew allowance (seconds)")

	fs.IntVar(&config.MinHashIterations, "m", config.MinHashIterations, "minimum password-hash iterations")
	fs.BoolVar(&config.VerboseAuthErrors, "v", config.VerboseAuthErrors, "verbose auth failure messages")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessMinutes) * time.Minute
	config.RefreshTokenTTL = time.Duration(*refreshDays) * 24 * time.Hour
	config.ClockSkew = time.Duration(*skewSeconds) * time.Second
}
