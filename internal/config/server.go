package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PostgresDSN is optional: without it the server runs rounds but keeps
	// no profiles, history, or leaderboard.
	PostgresDSN string `env:"POSTGRES_DSN"`

	MaxBet float64 `env:"MAX_BET" envDefault:"100"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
