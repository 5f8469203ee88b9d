package review

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

//
// --------------------------------------------------
// POST /prices/:id/verify
// --------------------------------------------------
//

func (h *Handler) Verify(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	submissionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req struct {
		IsAccurate *bool   `json:"is_accurate" validate:"required"`
		Notes      *string `json:"notes" validate:"omitempty,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verification, err := h.service.Verify(
		c.Request.Context(),
		submissionID,
		userID.(string),
		*req.IsAccurate,
		req.Notes,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, verification)
}

//
// --------------------------------------------------
// POST /prices/:id/dispute
// --------------------------------------------------
//

func (h *Handler) Dispute(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	submissionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req struct {
		Reason         string   `json:"reason" validate:"required,max=500"`
		SuggestedPrice *float64 `json:"suggested_price"`
		EvidenceURL    *string  `json:"evidence_url" validate:"omitempty,url,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dispute, err := h.service.Dispute(
		c.Request.Context(),
		submissionID,
		userID.(string),
		req.Reason,
		req.SuggestedPrice,
		req.EvidenceURL,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

//
// --------------------------------------------------
// POST /disputes/:id/review (MODERATOR)
// --------------------------------------------------
//

func (h *Handler) StartReview(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	disputeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dispute id"})
		return
	}

	dispute, err := h.service.StartReview(c.Request.Context(), disputeID, userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

//
// --------------------------------------------------
// POST /disputes/:id/resolve (MODERATOR)
// --------------------------------------------------
//

func (h *Handler) Resolve(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	disputeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dispute id"})
		return
	}

	var req struct {
		Outcome string `json:"outcome" validate:"required,oneof=accepted rejected dismissed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dispute, err := h.service.Resolve(
		c.Request.Context(),
		disputeID,
		userID.(string),
		ResolutionOutcome(req.Outcome),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

//
// --------------------------------------------------
// GET /disputes/pending (MODERATOR)
// --------------------------------------------------
//

func (h *Handler) Pending(c *gin.Context) {
	disputes, err := h.service.PendingDisputes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disputes": disputes})
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
