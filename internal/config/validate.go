package config

import (
	"errors"
	"fmt"
)

// Validate checks that all values are in range.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Liveness.SweepInterval <= 0 {
		return errors.New("liveness.sweep_interval must be > 0")
	}
	if c.Liveness.IdleTimeout < c.Liveness.SweepInterval {
		return fmt.Errorf("liveness.idle_timeout (%s) must be >= sweep_interval (%s)",
			c.Liveness.IdleTimeout, c.Liveness.SweepInterval)
	}

	if c.Rooms.Capacity < 0 {
		return errors.New("rooms.capacity must be >= 0 (0 = unbounded)")
	}

	if c.Transport.MaxMessageSize < 1 {
		return errors.New("transport.max_message_size must be >= 1")
	}
	if c.Transport.SendBuffer < 1 {
		return errors.New("transport.send_buffer must be >= 1")
	}
	if c.Transport.WriteTimeout <= 0 {
		return errors.New("transport.write_timeout must be > 0")
	}
	if c.Transport.PingInterval <= 0 {
		return errors.New("transport.ping_interval must be > 0")
	}
	if c.Transport.PingInterval >= c.Transport.PongWait {
		return fmt.Errorf("transport.ping_interval (%s) must be < pong_wait (%s)",
			c.Transport.PingInterval, c.Transport.PongWait)
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}
	if c.Metrics.Port == c.Server.Port {
		return errors.New("metrics.port must differ from server.port")
	}

	return nil
}
