package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 3001
	DefaultSweepInterval  = 30 * time.Second
	DefaultIdleTimeout    = 60 * time.Second
	DefaultRoomCapacity   = 0 // unbounded
	DefaultMaxMessageSize = 64 * 1024
	DefaultSendBuffer     = 64
	DefaultWriteTimeout   = 10 * time.Second
	DefaultPingInterval   = 54 * time.Second
	DefaultPongWait       = 60 * time.Second
	DefaultMetricsPort    = 9090
	DefaultMetricsPath    = "/metrics"
)

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.Liveness.SweepInterval == 0 {
		c.Liveness.SweepInterval = DefaultSweepInterval
	}
	if c.Liveness.IdleTimeout == 0 {
		c.Liveness.IdleTimeout = DefaultIdleTimeout
	}

	// Rooms.Capacity: zero value is the unbounded default.

	if c.Transport.MaxMessageSize == 0 {
		c.Transport.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.Transport.SendBuffer == 0 {
		c.Transport.SendBuffer = DefaultSendBuffer
	}
	if c.Transport.WriteTimeout == 0 {
		c.Transport.WriteTimeout = DefaultWriteTimeout
	}
	if c.Transport.PingInterval == 0 {
		c.Transport.PingInterval = DefaultPingInterval
	}
	if c.Transport.PongWait == 0 {
		c.Transport.PongWait = DefaultPongWait
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
