package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lottohub/draws-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawHandler handles the public draw browsing endpoints
type DrawHandler struct {
	drawService     services.DrawService
	categoryService services.CategoryService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService, categoryService services.CategoryService) *DrawHandler {
	return &DrawHandler{
		drawService:     drawService,
		categoryService: categoryService,
	}
}

// listQueryFromRequest picks the supported filter parameters off the request.
func listQueryFromRequest(c *gin.Context) services.ListQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	return services.ListQuery{
		Category:   c.Query("category"),
		Status:     c.Query("status"),
		DrawNumber: c.Query("draw_number"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
		Page:       page,
	}
}

// ListDraws handles GET /draws
func (h *DrawHandler) ListDraws(c *gin.Context) {
	page, err := h.drawService.ListDraws(c.Request.Context(), listQueryFromRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetDraw handles GET /draws/:id — the detail page payload: the draw plus
// recent completed draws from the same category.
func (h *DrawHandler) GetDraw(c *gin.Context) {
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

	related, err := h.drawService.RelatedDraws(c.Request.Context(), draw)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draw":          draw,
		"related_draws": related,
	})
}

// Home handles GET /home — everything the public landing page renders:
// the filtered listing, the category picker, the live and featured sections,
// and the active filters echoed back.
func (h *DrawHandler) Home(c *gin.Context) {
	query := listQueryFromRequest(c)

	draws, err := h.drawService.ListDraws(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	categories, err := h.categoryService.ActiveCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	liveDraws, err := h.drawService.LiveDraws(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	featuredDraws, err := h.drawService.FeaturedDraws(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draws":          draws,
		"categories":     categories,
		"live_draws":     liveDraws,
		"featured_draws": featuredDraws,
		"filters": gin.H{
			"category":    query.Category,
			"status":      query.Status,
			"draw_number": query.DrawNumber,
			"date_from":   query.DateFrom,
			"date_to":     query.DateTo,
		},
	})
}

// ListCategories handles GET /categories
func (h *DrawHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ActiveCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
