package summary_module

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	outreach_morningsummary "github.com/sales793/torenius-timber/internal/outreaches/morning-summary"

	"github.com/sales793/torenius-timber/internal/notify"
	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/sdk"
	"github.com/sales793/torenius-timber/pkg/utils"
)

var cfg *utils.Config

// Init keeps the config for manual summary runs
func Init(config *utils.Config) error {
	if config == nil {
		return fmt.Errorf("config must be provided")
	}

	cfg = config
	return nil
}

// RunSummary triggers the daily summary outside its schedule. A failed email
// delivery is reported as a warning, not an error; failures in the
// credential/invoice path surface with their usual status codes.
func RunSummary(c *gin.Context) {
	if err := outreach_morningsummary.SendMorningSummary(cfg); err != nil {
		if errors.Is(err, notify.ErrNotificationFailed) {
			log.Printf("[SUMMARY]: Delivery failed on manual run: %v", err)
			c.JSON(sdk.NewSuccess("Summary generated; notification delivery failed").AsGinResponse())
			return
		}

		c.JSON(sdk.NewErrorResponse(xero.HTTPStatus(err), "Failed to run summary", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Summary sent").AsGinResponse())
}
