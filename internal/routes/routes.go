package routes

import "github.com/gin-gonic/gin"

// RegisterRoutes wires all route groups under /api/v1.
func RegisterRoutes(router *gin.Engine, gridRoutes *GridRoutes) {
	api := router.Group("/api/v1")
	gridRoutes.RegisterRoutes(api)
}
