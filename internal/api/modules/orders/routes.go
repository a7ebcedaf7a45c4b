package orders_module

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the orders module
func RegisterRoutes(g *gin.RouterGroup) {
	group := g.Group("/orders")

	group.GET("", GetOrders)
	group.POST("/complete", CompleteOrder)
}
