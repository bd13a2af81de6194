package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gridbase/backend/internal/handlers"
)

type GridRoutes struct {
	gridHandler       *handlers.GridHandler
	savedQueryHandler *handlers.SavedQueryHandler
}

func NewGridRoutes(gridHandler *handlers.GridHandler, savedQueryHandler *handlers.SavedQueryHandler) *GridRoutes {
	return &GridRoutes{
		gridHandler:       gridHandler,
		savedQueryHandler: savedQueryHandler,
	}
}

func (r *GridRoutes) RegisterRoutes(router *gin.RouterGroup) {
	schemas := router.Group("/schemas/:schema")
	{
		schemas.GET("/tables", r.gridHandler.ListTables)
		schemas.GET("/tables/:table/columns", r.gridHandler.ListColumns)
		schemas.GET("/tables/:table/rows", r.gridHandler.GetRows)
		schemas.POST("/tables/:table/saved-queries", r.savedQueryHandler.Save)
	}

	queries := router.Group("/saved-queries")
	{
		queries.GET("", r.savedQueryHandler.List)
		queries.GET("/:id", r.savedQueryHandler.Get)
	}
}
