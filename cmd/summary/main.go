package main

import (
	"log"
	"os"

	"github.com/sales793/torenius-timber/internal/notify"
	"github.com/sales793/torenius-timber/internal/stores/credential"
	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/utils"

	outreach_morningsummary "github.com/sales793/torenius-timber/internal/outreaches/morning-summary"
)

// Run the morning summary once and exit. Useful for manual sends and for
// deployments that prefer an external scheduler over the in-process one.
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	store, err := credential.NewStoreFromConfig(cfg)
	if err != nil {
		log.Fatal("[SUMMARY-MAIN]: Failed to create credential store: ", err)
	}

	client := xero.NewClient(cfg, store)
	mailer := notify.NewClient(cfg)

	if err := outreach_morningsummary.Init(cfg, client, mailer); err != nil {
		log.Fatal("[SUMMARY-MAIN]: Failed to init morning summary: ", err)
	}

	if err := outreach_morningsummary.SendMorningSummary(cfg); err != nil {
		log.Fatal("[SUMMARY-MAIN]: Morning summary failed: ", err)
	}
}
