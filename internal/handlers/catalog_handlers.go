package handlers

import (
	"fmt"
	"net/http"

	"els_pos_backend/internal/models"
	"els_pos_backend/internal/services"
	"els_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// statusAll disables the status filter, which otherwise defaults to active.
const statusAll = "all"

// CatalogHandler serves the item and staff lookups used by order entry.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

// GetItems lists menu items. Only active items are returned unless status is given.
func (h *CatalogHandler) GetItems(c *gin.Context) {
	filters, err := parseCatalogFilters(c)
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if s := c.Query("category_id"); s != "" {
		categoryID, err := utils.StrToInt64(s)
		if err != nil {
			utils.RespondValidationFailed(c, fmt.Sprintf("invalid category_id %q", s))
			return
		}
		filters.CategoryID = &categoryID
	}

	items, page, err := h.catalogService.GetItems(c.Request.Context(), filters)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve items.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Items retrieved successfully", gin.H{
		"items":      items,
		"pagination": page,
	})
}

func (h *CatalogHandler) GetItemByID(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id", "item ID")
	if !ok {
		return
	}
	item, err := h.catalogService.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve item.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Item retrieved successfully", item)
}

// GetStaff lists staff members, active only unless status is given.
func (h *CatalogHandler) GetStaff(c *gin.Context) {
	filters, err := parseCatalogFilters(c)
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if role := c.Query("role"); role != "" {
		filters.Role = &role
	}

	members, page, err := h.catalogService.GetStaff(c.Request.Context(), filters)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve staff.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Staff retrieved successfully", gin.H{
		"staff":      members,
		"pagination": page,
	})
}

func (h *CatalogHandler) GetStaffByID(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id", "staff ID")
	if !ok {
		return
	}
	staff, err := h.catalogService.GetStaffByID(c.Request.Context(), staffID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve staff member.")
		return
	}
	utils.RespondWithSuccess(c, http.StatusOK, "Staff member retrieved successfully", staff)
}

func parseCatalogFilters(c *gin.Context) (models.CatalogFilters, error) {
	var filters models.CatalogFilters

	status := c.DefaultQuery("status", models.EntityStatusActive)
	if status != statusAll {
		filters.Status = &status
	}
	if s := c.Query("page"); s != "" {
		page, err := utils.StrToPositiveInt(s)
		if err != nil {
			return filters, fmt.Errorf("invalid page %q", s)
		}
		filters.Page = page
	}
	if s := c.Query("limit"); s != "" {
		limit, err := utils.StrToPositiveInt(s)
		if err != nil {
			return filters, fmt.Errorf("invalid limit %q", s)
		}
		filters.Limit = limit
	}
	return filters, nil
}
