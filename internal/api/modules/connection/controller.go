package connection_module

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/sdk"
)

// AuthorizeCallback handles the OAuth redirect: exchanges the authorization
// code and connects the first organization on the account.
func AuthorizeCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "No authorization code", nil).AsGinResponse())
		return
	}

	organization, err := connectionService.Authorize(c.Request.Context(), code)
	if err != nil {
		log.Printf("[CONNECTION]: Authorization failed: %v", err)
		c.JSON(sdk.NewErrorResponse(xero.HTTPStatus(err), "Authorization failed", err).AsGinResponse())
		return
	}

	resp := &sdk.AuthorizeResponse{Organization: organization}
	c.JSON(sdk.NewSuccessResponse("Connected to Xero", resp).AsGinResponse())
}

// GetStatus reports the current connection state
func GetStatus(c *gin.Context) {
	status, err := connectionService.Status(c.Request.Context())
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to get connection status", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Status retrieved successfully", status).AsGinResponse())
}

// Disconnect clears the stored credential and organization config
func Disconnect(c *gin.Context) {
	if err := connectionService.Disconnect(c.Request.Context()); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to disconnect", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Disconnected from Xero").AsGinResponse())
}
