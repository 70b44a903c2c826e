package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":8000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-g string   JWT algorithm
//	-t int      access token validity, minutes
//	-o bool     enforce recipe ownership on PUT/DELETE
//	-cors string  comma separated CORS origins
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-g", "-t", "-o", "-cors"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerAddress, "a", config.ServerAddress, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.Algorithm, "g", config.Algorithm, "token signing algorithm")
	fs.BoolVar(&config.EnforceRecipeOwnership, "o", config.EnforceRecipeOwnership, "enforce recipe ownership on update/delete")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	origins := fs.String("cors", strings.Join(config.CORSOrigins, ","), "allowed CORS origins, comma separated")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicitly passed values are converted back, so a sub-minute
	// lifetime from JSON survives when -t is absent.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "cors":
			config.CORSOrigins = splitOrigins(*origins)
		}
	})
}
