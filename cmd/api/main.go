package main

import (
	"os"

	"github.com/burak/univote/internal/pkg/logger"
	"github.com/burak/univote/internal/server"
)

// @title UniVote API
// @version 1.0
// @description API for university association elections: ballot casting, results tabulation and manifesto Q&A

// @contact.name API Support
// @contact.email support@univote.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for admin authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
