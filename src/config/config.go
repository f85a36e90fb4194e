// Package config provides configuration management for the gridrelay broker.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gridrelay/src/contracts"
)

// Defaults for the replay protocol timings. All knobs are in seconds.
const (
	DefaultRequestInterval = 2 * time.Second
	DefaultRequestTimeout  = 60 * time.Second
	DefaultPollDelay       = 1 * time.Second
	DefaultReplayBind      = "127.0.0.1:5561"
)

// Config holds the broker configuration.
type Config struct {
	// ReplayBind is the address the local replay server binds.
	ReplayBind string
	// ReplayUpstream is the upstream replay server address. Required in
	// client mode, unused in server mode.
	ReplayUpstream string
	// RequestInterval is the period of the replay request loop.
	RequestInterval time.Duration
	// RequestTimeout bounds connect and response wait on each upstream
	// exchange.
	RequestTimeout time.Duration
	// PollDelay is the replay server's pause between serving requests.
	PollDelay time.Duration

	// PostgresDSN is the event store connection string. Empty selects
	// the in-memory store.
	PostgresDSN string

	// RedpandaBrokers are the live pub/sub seed brokers. Empty selects
	// the in-memory broker.
	RedpandaBrokers []string
	// EdgeTopic carries live telemetry from edge producers.
	EdgeTopic string
	// ServerTopic carries telemetry republished downstream.
	ServerTopic string
	// GroupID is the consumer group for the live relay.
	GroupID string
}

// LoadFromEnv loads configuration from GRIDRELAY_* environment variables,
// applying defaults for everything optional.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ReplayBind:      envOr("GRIDRELAY_REPLAY_BIND", DefaultReplayBind),
		ReplayUpstream:  os.Getenv("GRIDRELAY_REPLAY_UPSTREAM"),
		RequestInterval: DefaultRequestInterval,
		RequestTimeout:  DefaultRequestTimeout,
		PollDelay:       DefaultPollDelay,
		PostgresDSN:     os.Getenv("GRIDRELAY_POSTGRES_DSN"),
		EdgeTopic:       envOr("GRIDRELAY_EDGE_TOPIC", contracts.TopicEdgeEvents),
		ServerTopic:     envOr("GRIDRELAY_SERVER_TOPIC", contracts.TopicCloudEvents),
		GroupID:         envOr("GRIDRELAY_GROUP_ID", "gridrelay-relay"),
	}

	if brokers := os.Getenv("GRIDRELAY_REDPANDA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.RedpandaBrokers = append(cfg.RedpandaBrokers, b)
			}
		}
	}

	var err error
	if cfg.RequestInterval, err = envSeconds("GRIDRELAY_REQUEST_INTERVAL", DefaultRequestInterval); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = envSeconds("GRIDRELAY_REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.PollDelay, err = envSeconds("GRIDRELAY_POLL_DELAY", DefaultPollDelay); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoadFromEnv loads configuration from environment variables and panics on error.
// This is useful for initialization in main() where configuration errors should be fatal.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// envOr returns the value of the environment variable or a default.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envSeconds parses an environment variable holding a whole number of seconds.
func envSeconds(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("%s must be a positive number of seconds, got %q", key, v)
	}
	return time.Duration(secs) * time.Second, nil
}
