package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lottohub/draws-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminDrawHandler handles the authenticated draw management endpoints
type AdminDrawHandler struct {
	drawService services.DrawService
}

// NewAdminDrawHandler creates a new AdminDrawHandler
func NewAdminDrawHandler(drawService services.DrawService) *AdminDrawHandler {
	return &AdminDrawHandler{
		drawService: drawService,
	}
}

// ListDraws handles GET /admin/draws — the unfiltered paginated listing
func (h *AdminDrawHandler) ListDraws(c *gin.Context) {
	pageNum, _ := strconv.Atoi(c.Query("page"))
	page, err := h.drawService.ListDraws(c.Request.Context(), services.ListQuery{Page: pageNum})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetDraw handles GET /admin/draws/:id
func (h *AdminDrawHandler) GetDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	draw, err := h.drawService.GetDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// CreateDraw handles POST /admin/draws
func (h *AdminDrawHandler) CreateDraw(c *gin.Context) {
	var input services.DrawInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draw, err := h.drawService.CreateDraw(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draw)
}

// UpdateDraw handles PUT /admin/draws/:id
func (h *AdminDrawHandler) UpdateDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var input services.DrawInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draw, err := h.drawService.UpdateDraw(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// DeleteDraw handles DELETE /admin/draws/:id
func (h *AdminDrawHandler) DeleteDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := h.drawService.DeleteDraw(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw deleted successfully"})
}
