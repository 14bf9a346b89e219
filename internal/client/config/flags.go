package config

import (
	"github.com/urfave/cli/v2"
)

const (
	FlagConfig  = "config"
	FlagAddress = "address"
	FlagTimeout = "timeout"
	FlagToken   = "token"

	EnvAddress = "HANDTOHAND_ADDR"
	EnvToken   = "HANDTOHAND_TOKEN"
)

// Flags returns the global flags bound to cfg. Call cfg.LoadDefaults first;
// the current values become the flag defaults.
func Flags(cfg *Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagConfig,
			Aliases: []string{"c"},
			Usage:   "path to a JSON config file",
		},
		&cli.StringFlag{
			Name:        FlagAddress,
			Aliases:     []string{"a"},
			Usage:       "address and port of the marketplace gRPC server",
			EnvVars:     []string{EnvAddress},
			Value:       cfg.ServerEndpointAddr,
			Destination: &cfg.ServerEndpointAddr,
		},
		&cli.DurationFlag{
			Name:        FlagTimeout,
			Aliases:     []string{"t"},
			Usage:       "request timeout",
			Value:       cfg.Timeout,
			Destination: &cfg.Timeout,
		},
		&cli.StringFlag{
			Name:        FlagToken,
			Usage:       "access token; prompted for when empty",
			EnvVars:     []string{EnvToken},
			Destination: &cfg.AccessToken,
		},
	}
}

// Apply overlays the JSON file named by --config onto cfg without touching
// values set explicitly by flag or environment.
func Apply(c *cli.Context, cfg *Config) error {
	path := c.String(FlagConfig)
	if path == "" {
		return nil
	}

	jc, err := readJSON(path)
	if err != nil {
		return err
	}

	if jc.ServerEndpointAddr != nil && !c.IsSet(FlagAddress) {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.Timeout != nil && !c.IsSet(FlagTimeout) {
		cfg.Timeout = jc.Timeout.Duration
	}
	if jc.AccessToken != nil && !c.IsSet(FlagToken) {
		cfg.AccessToken = *jc.AccessToken
	}
	return nil
}
