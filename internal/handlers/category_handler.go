package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"upcache/internal/services"
)

// CategoryHandler handles category taxonomy requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// GetCategories lists the category taxonomy.
// @Summary     List categories
// @Description List the category taxonomy ordered by name, with parent references resolved
// @Tags        categories
// @Produce     json
// @Param       bypass_cache query bool false "Force a refresh from the bank API"
// @Success     200 {array} models.Category "Categories"
// @Failure     401 {object} ErrorResponse "Invalid access token"
// @Failure     502 {object} ErrorResponse "Bank API failure"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	bypassCache := c.Query("bypass_cache") == "true"

	categories, err := h.categoryService.GetCategories(c.Request.Context(), bypassCache)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}
