package connection_module

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the connection module
func RegisterRoutes(g *gin.RouterGroup) {
	group := g.Group("/connection")

	group.GET("/callback", AuthorizeCallback)
	group.GET("/status", GetStatus)
	group.POST("/disconnect", Disconnect)
}
