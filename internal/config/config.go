package config

import "time"

// Config is the root configuration for a signaling server instance.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Liveness  LivenessConfig  `yaml:"liveness"`
	Rooms     RoomsConfig     `yaml:"rooms"`
	Transport TransportConfig `yaml:"transport"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds the listen address for the signaling endpoint.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LivenessConfig holds the sweep settings for evicting silent connections.
type LivenessConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
}

// RoomsConfig holds the room membership policy.
type RoomsConfig struct {
	// Capacity caps distinct members per room. 0 means unbounded broadcast
	// rooms; 2 gives classic two-party call semantics.
	Capacity int `yaml:"capacity"`
}

// TransportConfig holds per-connection WebSocket settings.
type TransportConfig struct {
	MaxMessageSize int64         `yaml:"max_message_size"`
	SendBuffer     int           `yaml:"send_buffer"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	PongWait       time.Duration `yaml:"pong_wait"`
}

// MetricsConfig holds Prometheus metrics and health endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
