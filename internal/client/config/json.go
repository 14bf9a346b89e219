package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/handtohand/marketplace/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// stay nil so they do not clobber defaults.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	Timeout            *timex.Duration `json:"timeout"`
	AccessToken        *string         `json:"access_token"`
}

func readJSON(path string) (*JsonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &jc, nil
}
