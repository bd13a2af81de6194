package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gridbase/backend/internal/database"
	"github.com/gridbase/backend/internal/models"
	"github.com/gridbase/backend/internal/responses"
	"github.com/gridbase/backend/internal/services"
)

const filterParamPrefix = "filter."

const timeoutHint = "the query ran too long; try a smaller page size or the key-only foreign-key mode"

type GridHandler struct {
	gridService *services.GridService
	manager     *database.Manager
}

func NewGridHandler(gridService *services.GridService, manager *database.Manager) *GridHandler {
	return &GridHandler{
		gridService: gridService,
		manager:     manager,
	}
}

// ListTables handles GET /api/v1/schemas/:schema/tables
func (h *GridHandler) ListTables(c *gin.Context) {
	schema := c.Param("schema")

	tables, err := h.gridService.ListTables(c.Request.Context(), schema)
	if err != nil {
		failQuery(c, h.manager, err, "Failed to list tables")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{"tables": tables}, "Tables listed successfully")
}

// ListColumns handles GET /api/v1/schemas/:schema/tables/:table/columns
func (h *GridHandler) ListColumns(c *gin.Context) {
	table := models.TableRef{Schema: c.Param("schema"), Table: c.Param("table")}

	columns, err := h.gridService.ListColumns(c.Request.Context(), table)
	if err != nil {
		failQuery(c, h.manager, err, "Failed to list columns")
		return
	}

	responses.Success(c, http.StatusOK, gin.H{"columns": columns}, "Columns listed successfully")
}

// GetRows handles GET /api/v1/schemas/:schema/tables/:table/rows
func (h *GridHandler) GetRows(c *gin.Context) {
	req := ParseFetchRequest(c)

	page, err := h.gridService.FetchPage(c.Request.Context(), req)
	if err != nil {
		failQuery(c, h.manager, err, "Failed to fetch rows")
		return
	}

	responses.Success(c, http.StatusOK, page, "Rows fetched successfully")
}

// ParseFetchRequest reads the grid state off the query string. Numeric
// parameters fall back to defaults on parse failure; range clamping happens
// in the service.
func ParseFetchRequest(c *gin.Context) services.FetchPageRequest {
	req := services.FetchPageRequest{
		Table: models.TableRef{
			Schema: c.Param("schema"),
			Table:  c.Param("table"),
		},
		Page: models.PageRequest{
			Page:     atoiDefault(c.DefaultQuery("page", "1"), 1),
			PageSize: atoiDefault(c.DefaultQuery("page_size", "50"), 50),
		},
		FkMode: models.ParseFkDisplayMode(c.DefaultQuery("fk_mode", string(models.FkKeyOnly))),
	}

	if sortCol := c.Query("sort"); sortCol != "" {
		dir := models.SortAsc
		if strings.EqualFold(c.Query("dir"), "desc") {
			dir = models.SortDesc
		}
		req.Sort = &models.SortSpec{Column: sortCol, Direction: dir}
	}

	if cols := c.Query("columns"); cols != "" {
		for _, name := range strings.Split(cols, ",") {
			if name = strings.TrimSpace(name); name != "" {
				req.Columns = append(req.Columns, name)
			}
		}
	}

	for key, values := range c.Request.URL.Query() {
		if !strings.HasPrefix(key, filterParamPrefix) || len(values) == 0 {
			continue
		}
		req.Filters = append(req.Filters, models.FilterSpec{
			Column:  strings.TrimPrefix(key, filterParamPrefix),
			Pattern: values[0],
		})
	}

	return req
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// failQuery maps the error taxonomy onto HTTP. An auth failure additionally
// drops the shared connection so the next request reconnects with fresh
// credentials.
func failQuery(c *gin.Context, manager *database.Manager, err error, message string) {
	var qerr *models.QueryError
	if !errors.As(err, &qerr) {
		responses.Fail(c, http.StatusInternalServerError, err, message)
		return
	}

	switch qerr.Kind {
	case models.KindPlanning:
		responses.Fail(c, http.StatusBadRequest, err, message)
	case models.KindTimeout:
		responses.FailWithHint(c, http.StatusGatewayTimeout, err, message, timeoutHint)
	case models.KindAuth:
		if manager != nil {
			manager.Drop()
		}
		responses.Fail(c, http.StatusUnauthorized, err, message)
	default:
		responses.Fail(c, http.StatusBadGateway, err, message)
	}
}
