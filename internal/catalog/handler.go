package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler exposes the read-only catalog so clients can discover the
// providers and menu items they submit and compare prices against.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

//
// --------------------------------------------------
// GET /catalog/providers
// --------------------------------------------------
//

func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := h.repo.ListProviders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	active := make([]*Provider, 0, len(providers))
	for _, p := range providers {
		if p.IsActive {
			active = append(active, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"providers": active})
}

//
// --------------------------------------------------
// GET /catalog/restaurants/:id/items
// --------------------------------------------------
//

func (h *Handler) ListMenuItems(c *gin.Context) {
	restaurantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return
	}

	items, err := h.repo.ListMenuItemsByRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"menu_items": items})
}
