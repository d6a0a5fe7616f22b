package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
server:
  host: 127.0.0.1
  port: 4000
liveness:
  sweep_interval: 10s
  idle_timeout: 25s
rooms:
  capacity: 2
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Liveness.SweepInterval != 10*time.Second {
		t.Errorf("SweepInterval = %s, want 10s", cfg.Liveness.SweepInterval)
	}
	if cfg.Rooms.Capacity != 2 {
		t.Errorf("Rooms.Capacity = %d, want 2", cfg.Rooms.Capacity)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_SIGNAL_HOST", "10.0.0.7")

	yaml := `
server:
  host: ${TEST_SIGNAL_HOST}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "10.0.0.7" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "10.0.0.7")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "server:\n  port: 8443\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Server.Port != 8443 {
		t.Errorf("Server.Port = %d, want 8443 (explicit value kept)", cfg.Server.Port)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want default %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Liveness.SweepInterval != DefaultSweepInterval {
		t.Errorf("SweepInterval = %s, want default %s", cfg.Liveness.SweepInterval, DefaultSweepInterval)
	}
	if cfg.Liveness.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("IdleTimeout = %s, want default %s", cfg.Liveness.IdleTimeout, DefaultIdleTimeout)
	}
	if cfg.Rooms.Capacity != DefaultRoomCapacity {
		t.Errorf("Rooms.Capacity = %d, want default %d", cfg.Rooms.Capacity, DefaultRoomCapacity)
	}
	if cfg.Transport.MaxMessageSize != DefaultMaxMessageSize {
		t.Errorf("MaxMessageSize = %d, want default %d", cfg.Transport.MaxMessageSize, DefaultMaxMessageSize)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad server port", func(c *Config) { c.Server.Port = 70000 }},
		{"zero sweep interval", func(c *Config) { c.Liveness.SweepInterval = 0 }},
		{"timeout below sweep", func(c *Config) { c.Liveness.IdleTimeout = c.Liveness.SweepInterval / 2 }},
		{"negative capacity", func(c *Config) { c.Rooms.Capacity = -1 }},
		{"zero send buffer", func(c *Config) { c.Transport.SendBuffer = 0 }},
		{"ping interval past pong wait", func(c *Config) { c.Transport.PingInterval = c.Transport.PongWait * 2 }},
		{"metrics port clash", func(c *Config) { c.Metrics.Port = c.Server.Port }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestLoadAndValidate_Invalid(t *testing.T) {
	path := writeTempFile(t, "rooms:\n  capacity: -3\n")

	if _, err := LoadAndValidate(path); err == nil {
		t.Error("LoadAndValidate accepted invalid config")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}
