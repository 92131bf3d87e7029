package config

import (
	"os"

	"github.com/DrFlowerkick/fk-tournament-planer/internal/utils"
)

const AppName = "fk-tournament-planer"

type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	// DBUrl empty selects the in-memory store, used for local development
	// and tests.
	DBUrl string

	SeedTestData bool
}

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}

	return &Config{
		AppName:      AppName,
		AppPort:      appPort,
		AppUrl:       appUrl,
		DBUrl:        os.Getenv("DB_URL"),
		SeedTestData: os.Getenv("SEED_TEST_DATA") == "true",
	}
}
