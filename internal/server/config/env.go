package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dotenvPath is the file seeded into the environment before it is read.
// A missing file is not an error.
var dotenvPath = ".env"

// parseEnv overlays Config with environment variables:
//
//	SERVER_ADDRESS               bind address
//	DATABASE_URL                 PostgreSQL DSN
//	SECRET_KEY                   JWT HMAC secret
//	ALGORITHM                    JWT algorithm name
//	ACCESS_TOKEN_EXPIRE_MINUTES  token lifetime, minutes
//	CORS_ORIGINS                 comma separated origin list
//	ENFORCE_RECIPE_OWNERSHIP     true/false
//
// Variables already present in the process environment win over .env values.
// Malformed values panic, like malformed JSON or flags do.
func parseEnv(config *Config) {
	if _, err := os.Stat(dotenvPath); err == nil {
		if err := godotenv.Load(dotenvPath); err != nil {
			panic(fmt.Errorf("load %s: %w", dotenvPath, err))
		}
	}

	if v, ok := os.LookupEnv("SERVER_ADDRESS"); ok {
		config.ServerAddress = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("ALGORITHM"); ok {
		config.Algorithm = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: %w", err))
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		config.CORSOrigins = splitOrigins(v)
	}
	if v, ok := os.LookupEnv("ENFORCE_RECIPE_OWNERSHIP"); ok {
		enforce, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("ENFORCE_RECIPE_OWNERSHIP: %w", err))
		}
		config.EnforceRecipeOwnership = enforce
	}
}

func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
