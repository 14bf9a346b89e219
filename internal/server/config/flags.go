package config

import (
	"flag"
	"os"
	"time"

	"github.com/handtohand/marketplace/internal/flagx"
)

// parseFlags overlays Config fields from command-line flags.
//
//	-a string   gRPC bind address
//	-h string   HTTP bind address
//	-d string   PostgreSQL DSN
//	-s string   access token secret
//	-r string   Redis URL for exchange events
//	-m float    one-directional match threshold
//	-n float    reciprocal match threshold
//	-t int      match timeout, seconds
//
// Only these flags are read from os.Args, so -c/-config and anything else
// are left to their owners. Parse errors panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-h", "-d", "-s", "-r", "-m", "-n", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "h", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "access token secret")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL for exchange events")
	fs.Float64Var(&config.MinScore, "m", config.MinScore, "minimum match score")
	fs.Float64Var(&config.ReciprocalMinScore, "n", config.ReciprocalMinScore, "minimum reciprocal match score")

	matchTimeout := fs.Int("t", int(config.MatchTimeout.Seconds()), "match timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MatchTimeout = time.Duration(*matchTimeout) * time.Second
}
