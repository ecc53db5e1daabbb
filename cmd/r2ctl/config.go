package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/r2storage/pkg/logger"
	"github.com/dmitrymomot/r2storage/pkg/storage"
)

// appConfig is the complete r2ctl configuration.
type appConfig struct {
	Storage storage.Config
	Log     logger.Config
}

// loadConfig reads an optional dotenv file, then parses the environment.
// A missing dotenv file is not an error.
func loadConfig(envFile string) (appConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return appConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return appConfig{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
