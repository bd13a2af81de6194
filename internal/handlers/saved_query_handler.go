package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gridbase/backend/internal/database"
	"github.com/gridbase/backend/internal/responses"
	"github.com/gridbase/backend/internal/services"
)

type SavedQueryHandler struct {
	savedQueryService *services.SavedQueryService
	manager           *database.Manager
}

func NewSavedQueryHandler(savedQueryService *services.SavedQueryService, manager *database.Manager) *SavedQueryHandler {
	return &SavedQueryHandler{
		savedQueryService: savedQueryService,
		manager:           manager,
	}
}

type saveQueryRequest struct {
	Name string `json:"name" binding:"required"`
}

// Save handles POST /api/v1/schemas/:schema/tables/:table/saved-queries.
// The grid state comes from the query string, same as GetRows, so the saved
// text reflects exactly the view the caller is looking at.
func (h *SavedQueryHandler) Save(c *gin.Context) {
	var body saveQueryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body: name is required")
		return
	}

	req := ParseFetchRequest(c)

	saved, err := h.savedQueryService.Save(c.Request.Context(), body.Name, req)
	if err != nil {
		failQuery(c, h.manager, err, "Failed to save query")
		return
	}

	responses.Success(c, http.StatusCreated, saved, "Query saved successfully")
}

// List handles GET /api/v1/saved-queries
func (h *SavedQueryHandler) List(c *gin.Context) {
	responses.Success(c, http.StatusOK, gin.H{"queries": h.savedQueryService.List()}, "Saved queries listed successfully")
}

// Get handles GET /api/v1/saved-queries/:id
func (h *SavedQueryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid saved query ID format")
		return
	}

	saved, err := h.savedQueryService.Get(id)
	if err != nil {
		responses.Fail(c, http.StatusNotFound, err, "Saved query not found")
		return
	}

	responses.Success(c, http.StatusOK, saved, "Saved query fetched successfully")
}
