package cmd

import (
	"os"

	"github.com/firewatch-geo/firewatch-services/db"
	"github.com/firewatch-geo/firewatch-services/internal/appconfig"
	"github.com/rs/zerolog/log"
)

var (
	appCfg *appconfig.Config
	geoDB  *db.GeoportalDB
)

// commonSetUp loads the config, initializes the database and sets up logging.
func commonSetUp() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := os.Setenv("DATABASE_URL", appCfg.Database.Source); err != nil {
		log.Fatal().Err(err).Msg("failed to set DATABASE_URL")
	}

	logger := log.Logger
	geoDB, err = db.NewGeoportalDB(&logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize GeoportalDB")
	}
}
