package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/yigit/dojo/internal/pkg/logger"
	"github.com/yigit/dojo/internal/server"
)

// @title Dojo API
// @version 1.0
// @description API for a karate school: graduations, enrollment, evaluation and monthly plans
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@dojo.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Real deployments set the environment directly; .env is a local convenience
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Msg("Ignoring unreadable .env file")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Fatal().Err(err).Msg("Dojo API failed to start")
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Dojo API stopped with errors")
		os.Exit(1)
	}
}
