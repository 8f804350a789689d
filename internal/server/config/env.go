package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddress         = "HTTP_ADDRESS"
	EnvGRPCAddress         = "GRPC_ADDRESS"
	EnvDatabaseDSN         = "DATABASE_DSN"
	EnvSecretKey           = "SECRET_KEY"
	EnvAccessTokenTTL      = "ACCESS_TOKEN_TTL"
	EnvLogLevel            = "LOG_LEVEL"
	EnvMetadataCacheSize   = "METADATA_CACHE_SIZE"
	EnvMetadataCacheTTL    = "METADATA_CACHE_TTL"
	EnvMaxRequestBodyBytes = "MAX_REQUEST_BODY_BYTES"
	EnvShutdownTimeout     = "SHUTDOWN_TIMEOUT"
)

// dotEnvFile is loaded into the process environment when present.
// Variables already set are not overwritten.
var dotEnvFile = ".env"

// parseEnv overlays config with values from the environment, after loading
// dotEnvFile if it exists. Malformed numbers or durations panic.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("load %s: %w", dotEnvFile, err))
	}

	envString(&config.EndpointAddrHTTP, EnvHTTPAddress)
	envString(&config.EndpointAddrGRPC, EnvGRPCAddress)
	envString(&config.DatabaseDSN, EnvDatabaseDSN)
	envString(&config.SecretKey, EnvSecretKey)
	envString(&config.LogLevel, EnvLogLevel)

	envDuration(&config.AccessTokenValidityDuration, EnvAccessTokenTTL)
	envDuration(&config.MetadataCacheTTL, EnvMetadataCacheTTL)
	envDuration(&config.ShutdownTimeout, EnvShutdownTimeout)

	if v, ok := os.LookupEnv(EnvMetadataCacheSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvMetadataCacheSize, err))
		}
		config.MetadataCacheSize = n
	}

	if v, ok := os.LookupEnv(EnvMaxRequestBodyBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvMaxRequestBodyBytes, err))
		}
		config.MaxRequestBodyBytes = n
	}
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}
