package config

import (
	"flag"
	"io"
	"time"

	"github.com/ottocollect/ottocollect/internal/flagx"
)

// serverFlags lists the flags owned by the server config. Anything else on
// the command line is left for other parsers.
var serverFlags = []string{
	"-a", "-grpc", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-region", "-e",
	"-public-url", "-site-url", "-log-level",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string           HTTP bind address (e.g. ":8080")
//	-grpc string        gRPC health bind address
//	-d string           PostgreSQL DSN
//	-s string           JWT HMAC secret key
//	-t int              access token validity, minutes
//	-r int              refresh token validity, minutes
//	-u / -p string      S3 user / password
//	-b string           S3 bucket
//	-region string      S3 region
//	-e string           S3 endpoint
//	-public-url string  public prefix of stored pictures
//	-site-url string    canonical site URL
//	-log-level string   debug, info, warning or error
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP address")
	fs.StringVar(&cfg.GRPCAddr, "grpc", cfg.GRPCAddr, "gRPC health address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	access := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (minutes)")
	refresh := fs.Int("r", int(cfg.RefreshTokenValidityDuration.Minutes()), "refresh token validity (minutes)")

	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 endpoint")
	fs.StringVar(&cfg.StoragePublicURL, "public-url", cfg.StoragePublicURL, "public storage URL")
	fs.StringVar(&cfg.SiteURL, "site-url", cfg.SiteURL, "canonical site URL")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	// Durations only change when given explicitly, so sub-minute values
	// from the environment survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
		case "r":
			cfg.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
		}
	})
	return nil
}
