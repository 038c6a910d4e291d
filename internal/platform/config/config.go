package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr             string
	DatabaseURL      string
	JWTSigningKey    string
	TokenTTL         time.Duration
	ExpiryScanPeriod time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	addr := os.Getenv("CARINS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	databaseURL := os.Getenv("CARINS_DATABASE_URL")

	jwtSigningKey := os.Getenv("CARINS_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	tokenTTL := 24 * time.Hour
	if raw := os.Getenv("CARINS_TOKEN_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			tokenTTL = d
		}
	}

	scanPeriod := time.Hour
	if raw := os.Getenv("CARINS_EXPIRY_SCAN_PERIOD"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			scanPeriod = d
		}
	}

	return Server{
		Addr:             addr,
		DatabaseURL:      databaseURL,
		JWTSigningKey:    jwtSigningKey,
		TokenTTL:         tokenTTL,
		ExpiryScanPeriod: scanPeriod,
	}
}
