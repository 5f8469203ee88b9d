package submission

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"pricecheck/internal/core"
)

var validate = validator.New()

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	MenuItemID       int64   `json:"menu_item_id" validate:"required,gt=0"`
	ProviderID       int64   `json:"provider_id" validate:"required,gt=0"`
	PriceValue       float64 `json:"price_value" validate:"required"`
	IsOffer          bool    `json:"is_offer"`
	OfferDescription *string `json:"offer_description" validate:"omitempty,max=500"`
	EvidenceURL      *string `json:"evidence_url" validate:"omitempty,url,max=500"`
}

//
// --------------------------------------------------
// POST /prices
// --------------------------------------------------
//

func (h *Handler) Submit(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.service.Submit(c.Request.Context(), SubmitInput{
		MenuItemID:       req.MenuItemID,
		ProviderID:       req.ProviderID,
		SubmitterID:      userID.(string),
		PriceValue:       req.PriceValue,
		IsOffer:          req.IsOffer,
		OfferDescription: req.OfferDescription,
		EvidenceURL:      req.EvidenceURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

//
// --------------------------------------------------
// GET /prices/items/:id
// --------------------------------------------------
//

func (h *Handler) ListForItem(c *gin.Context) {
	menuItemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	subs, err := h.service.PricesForItem(c.Request.Context(), menuItemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

//
// --------------------------------------------------
// GET /prices/latest?menu_item_id=&provider_id=
// --------------------------------------------------
//

func (h *Handler) Latest(c *gin.Context) {
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

	sub, err := h.service.LatestPrice(c.Request.Context(), menuItemID, providerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no price data"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

//
// --------------------------------------------------
// POST /prices/:id/evidence (multipart)
// --------------------------------------------------
//

func (h *Handler) UploadEvidence(c *gin.Context) {
	submissionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	fileHeader, err := c.FormFile("screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "screenshot file required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	url, err := h.service.AttachEvidence(
		c.Request.Context(),
		submissionID,
		file,
		fileHeader.Filename,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evidence_url": url})
}

func respondError(c *gin.Context, err error) {
	switch {
	case core.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case core.IsStateConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
