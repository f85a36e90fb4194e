package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.ReplayBind != DefaultReplayBind {
		t.Errorf("Expected default bind %s, got %s", DefaultReplayBind, cfg.ReplayBind)
	}
	if cfg.RequestInterval != 2*time.Second {
		t.Errorf("Expected 2s interval, got %v", cfg.RequestInterval)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("Expected 60s timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.PollDelay != time.Second {
		t.Errorf("Expected 1s poll delay, got %v", cfg.PollDelay)
	}
	if len(cfg.RedpandaBrokers) != 0 {
		t.Errorf("Expected no brokers by default, got %v", cfg.RedpandaBrokers)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("GRIDRELAY_REPLAY_BIND", "0.0.0.0:7001")
	t.Setenv("GRIDRELAY_REPLAY_UPSTREAM", "cloud.example.com:7001")
	t.Setenv("GRIDRELAY_REQUEST_INTERVAL", "5")
	t.Setenv("GRIDRELAY_REDPANDA_BROKERS", "localhost:19092, localhost:29092")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.ReplayBind != "0.0.0.0:7001" {
		t.Errorf("Expected bind override, got %s", cfg.ReplayBind)
	}
	if cfg.ReplayUpstream != "cloud.example.com:7001" {
		t.Errorf("Expected upstream override, got %s", cfg.ReplayUpstream)
	}
	if cfg.RequestInterval != 5*time.Second {
		t.Errorf("Expected 5s interval, got %v", cfg.RequestInterval)
	}
	if len(cfg.RedpandaBrokers) != 2 || cfg.RedpandaBrokers[1] != "localhost:29092" {
		t.Errorf("Unexpected brokers: %v", cfg.RedpandaBrokers)
	}
}

func TestLoadFromEnvRejectsBadInterval(t *testing.T) {
	for _, bad := range []string{"abc", "-1", "0"} {
		t.Setenv("GRIDRELAY_REQUEST_INTERVAL", bad)
		if _, err := LoadFromEnv(); err == nil {
			t.Errorf("Expected error for interval %q", bad)
		}
	}
}
