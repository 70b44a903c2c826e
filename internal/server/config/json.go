package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recipebox/internal/flagx"
	"github.com/dmitrijs2005/recipebox/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Absent
// keys leave the corresponding Config field untouched.
type JsonConfig struct {
	ServerAddress               *string         `json:"server_address"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	Algorithm                   *string         `json:"algorithm"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	CORSOrigins                 []string        `json:"cors_origins"`
	EnforceRecipeOwnership      *bool           `json:"enforce_recipe_ownership"`
	ReadHeaderTimeout           *timex.Duration `json:"read_header_timeout"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c / -config, if any, and overlays it on
// config. Unreadable files or invalid JSON panic.
func parseJson(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerAddress != nil {
		config.ServerAddress = *c.ServerAddress
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.Algorithm != nil {
		config.Algorithm = *c.Algorithm
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.EnforceRecipeOwnership != nil {
		config.EnforceRecipeOwnership = *c.EnforceRecipeOwnership
	}
	if c.ReadHeaderTimeout != nil {
		config.ReadHeaderTimeout = c.ReadHeaderTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
