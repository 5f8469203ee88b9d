package pricing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pricecheck/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

//
// --------------------------------------------------
// POST /compare
// --------------------------------------------------
//

func (h *Handler) Compare(c *gin.Context) {
	var req struct {
		MenuItemIDs []int64 `json:"menu_item_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.MenuItemIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menu_item_ids required"})
		return
	}

	results, err := h.service.Compare(c.Request.Context(), req.MenuItemIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comparisons": results})
}

//
// --------------------------------------------------
// GET /analytics?menu_item_id=&provider_id=
// --------------------------------------------------
//

func (h *Handler) Analytics(c *gin.Context) {
	menuItemID, err := strconv.ParseInt(c.Query("menu_item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu_item_id"})
		return
	}
	providerID, err := strconv.ParseInt(c.Query("provider_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider_id"})
		return
	}

	analytics, err := h.service.ItemAnalytics(c.Request.Context(), menuItemID, providerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

func respondError(c *gin.Context, err error) {
	switch {
	case core.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no data available"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
