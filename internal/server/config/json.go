package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
	"github.com/dmitrijs2005/gophdrive/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so both "30m" and integer nanoseconds are accepted.
// Fields left out of the file keep their current values.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LogLevel                    string         `json:"log_level"`
	MetadataCacheSize           *int           `json:"metadata_cache_size"`
	MetadataCacheTTL            timex.Duration `json:"metadata_cache_ttl"`
	MaxRequestBodyBytes         int64          `json:"max_request_body_bytes"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
	ReadTimeout                 timex.Duration `json:"read_timeout"`
	WriteTimeout                timex.Duration `json:"write_timeout"`
	IdleTimeout                 timex.Duration `json:"idle_timeout"`
	HealthCheckInterval         timex.Duration `json:"health_check_interval"`
}

// parseJson loads the file named by -c/-config (or $CONFIG) into config.
// No path means nothing to load. An unreadable or malformed file panics,
// the same way a bad flag does.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
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
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)

	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.MetadataCacheTTL, c.MetadataCacheTTL)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	setDuration(&config.ReadTimeout, c.ReadTimeout)
	setDuration(&config.WriteTimeout, c.WriteTimeout)
	setDuration(&config.IdleTimeout, c.IdleTimeout)
	setDuration(&config.HealthCheckInterval, c.HealthCheckInterval)

	// 0 is meaningful here (cache off), hence the pointer
	if c.MetadataCacheSize != nil {
		config.MetadataCacheSize = *c.MetadataCacheSize
	}
	if c.MaxRequestBodyBytes > 0 {
		config.MaxRequestBodyBytes = c.MaxRequestBodyBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
