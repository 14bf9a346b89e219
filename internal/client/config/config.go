package config

import "time"

// Config holds runtime settings for the HandtoHand CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the marketplace gRPC endpoint.
//   - Timeout: deadline for a single request.
//   - AccessToken: bearer token issued by the hosted auth service.
type Config struct {
	ServerEndpointAddr string
	Timeout            time.Duration
	AccessToken        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Timeout = 10 * time.Second
	c.AccessToken = ""
}
