// Package config loads process configuration from the environment.
package config

import "github.com/caarlos0/env/v11"

type Config struct {
	// LogLevel is a zerolog level name (debug, info, warn, ...).
	LogLevel string `env:"PARAKEET_LOG_LEVEL" envDefault:"info"`
	// Addr is the listen address for the WebSocket transport.
	Addr string `env:"PARAKEET_WS_ADDR" envDefault:":9090"`
	// Threads is the whisper thread count; 0 means one per CPU core.
	Threads int `env:"WHISPER_THREADS" envDefault:"0"`
	// Language is the recognition language, "auto" for detection.
	Language string `env:"WHISPER_LANGUAGE" envDefault:"auto"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
