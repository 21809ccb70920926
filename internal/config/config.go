package config

import (
	"net"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Display  DisplayConfig
	MAVLink  MAVLinkConfig
	Stepping SteppingConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// DisplayConfig is the UDP destination of the flight display.
type DisplayConfig struct {
	Host string
	Port int
}

// Address returns the display destination as host:port.
func (d DisplayConfig) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// MAVLinkConfig holds the framing identity.
type MAVLinkConfig struct {
	SystemID    uint8
	ComponentID uint8
}

// SteppingConfig controls the simulation step loop.
type SteppingConfig struct {
	Interval       time.Duration
	MaxSteps       uint64
	ScenarioFile   string
	StaleThreshold time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// MetricsConfig holds the Prometheus listener address; empty disables it.
type MetricsConfig struct {
	Addr string
}

// Load reads configuration from environment variables, falling back to defaults.
func Load() Config {
	return Config{
		Display: DisplayConfig{
			Host: getEnvString("PFD_HOST", "127.0.0.1"),
			Port: getEnvInt("PFD_PORT", 5760),
		},
		MAVLink: MAVLinkConfig{
			SystemID:    getEnvUint8("MAVLINK_SYSTEM_ID", 1),
			ComponentID: getEnvUint8("MAVLINK_COMPONENT_ID", 200),
		},
		Stepping: SteppingConfig{
			Interval:       getEnvDuration("STEP_INTERVAL", 20*time.Millisecond),
			MaxSteps:       getEnvUint64("MAX_STEPS", 0),
			ScenarioFile:   getEnvString("SCENARIO_FILE", ""),
			StaleThreshold: getEnvDuration("STALE_THRESHOLD", 5*time.Second),
		},
		Log: LogConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "console"),
			File:   getEnvString("LOG_FILE", ""),
		},
		Metrics: MetricsConfig{
			Addr: getEnvString("METRICS_ADDR", ""),
		},
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvUint8(key string, defaultVal uint8) uint8 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return defaultVal
	}
	return uint8(n)
}

func getEnvUint64(key string, defaultVal uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
