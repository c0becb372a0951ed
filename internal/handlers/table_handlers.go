package handlers

import (
	"net/http"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/services"
	"els_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler serves the read-only table occupancy view.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// GetTables lists tables, optionally filtered by status and occupied.
func (h *TableHandler) GetTables(c *gin.Context) {
	var filters models.TableFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	tables, err := h.tableService.GetTables(c.Request.Context(), filters)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve tables.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Tables retrieved successfully", tables)
}

// GetTableByID returns one table with its occupancy flag.
func (h *TableHandler) GetTableByID(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id", "table ID")
	if !ok {
		return
	}

	table, err := h.tableService.GetTableByID(c.Request.Context(), tableID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve table.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Table retrieved successfully", table)
}
