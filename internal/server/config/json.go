package config

import (
	"encoding/json"
	"os"

	"github.com/handtohand/marketplace/internal/flagx"
	"github.com/handtohand/marketplace/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Fields left
// out of the file keep the values already present in Config.
type JsonConfig struct {
	EndpointAddrGRPC       *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP       *string         `json:"endpoint_addr_http"`
	DatabaseDSN            *string         `json:"database_dsn"`
	SecretKey              *string         `json:"secret_key"`
	RedisURL               *string         `json:"redis_url"`
	MinScore               *float64        `json:"min_score"`
	ReciprocalMinScore     *float64        `json:"reciprocal_min_score"`
	MatchTimeout           *timex.Duration `json:"match_timeout"`
	OffersForWishesLimit   *int            `json:"offers_for_wishes_limit"`
	WishesForOffersLimit   *int            `json:"wishes_for_offers_limit"`
	ReciprocalLimit        *int            `json:"reciprocal_limit"`
	ExchangeUpdateAttempts *int            `json:"exchange_update_attempts"`
}

// parseJson overlays Config with the file named by -c/-config, if any.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.RedisURL, c.RedisURL)
	set(&config.MinScore, c.MinScore)
	set(&config.ReciprocalMinScore, c.ReciprocalMinScore)
	set(&config.OffersForWishesLimit, c.OffersForWishesLimit)
	set(&config.WishesForOffersLimit, c.WishesForOffersLimit)
	set(&config.ReciprocalLimit, c.ReciprocalLimit)
	set(&config.ExchangeUpdateAttempts, c.ExchangeUpdateAttempts)
	if c.MatchTimeout != nil {
		config.MatchTimeout = c.MatchTimeout.Duration
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
