package main

import (
	"os"

	"github.com/sales793/torenius-timber/internal/api"
	"github.com/sales793/torenius-timber/pkg/utils"
)

// Start the API server
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// Start
	api.Start(cfg)
}
