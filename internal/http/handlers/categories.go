package handlers

import (
	"net/http"

	"tempo/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetCategories returns the fixed category registry in display order.
func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Categories())
}
