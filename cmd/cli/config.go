package main

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// cliConfig holds flag defaults read from the environment.
type cliConfig struct {
	URL         string        `env:"KASA_URL"     envDefault:"http://localhost:8080"`
	Timeout     time.Duration `env:"KASA_TIMEOUT" envDefault:"10s"`
	DisplayTick time.Duration `env:"DISPLAY_TICK" envDefault:"1s"`
}

func loadConfig() (cliConfig, error) {
	_ = godotenv.Load()

	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
