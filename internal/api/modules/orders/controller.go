package orders_module

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/sdk"
)

// GetOrders handles GET requests for the open order list
func GetOrders(c *gin.Context) {
	orders, err := ordersService.FetchOrders(c.Request.Context())
	if err != nil {
		log.Printf("[ORDERS]: Failed to fetch orders: %v", err)
		c.JSON(sdk.NewErrorResponse(xero.HTTPStatus(err), "Failed to fetch orders", err).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Orders retrieved successfully", orders).AsGinResponse())
}

// CompleteOrder handles the completion webhook from the mill floor. Email
// delivery failure is logged and reported as a warning; it never fails the
// completion itself.
func CompleteOrder(c *gin.Context) {
	var req sdk.CompleteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err).AsGinResponse())
		return
	}

	if req.OrderNumber == "" || req.Customer == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Missing required fields", nil).AsGinResponse())
		return
	}

	if err := ordersService.NotifyCompletion(c.Request.Context(), &req); err != nil {
		log.Printf("[ORDERS]: Completion email for order %s failed: %v", req.OrderNumber, err)
		c.JSON(sdk.NewSuccess("Order completed; notification delivery failed").AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Order completed").AsGinResponse())
}
