package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SearchSongs handles GET /api/v1/songs/search: supplemental full-text
// catalogue discovery (title/artist/album, optional genre filter). Never
// the recognition path — recognition always resolves through the
// vector index.
func (h *Handlers) SearchSongs(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	search := h.kernel.Search()
	if search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalogue search is not configured"})
		return
	}

	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= maxHistoryLimit {
			limit = parsed
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	result, err := search.SearchSongs(c.Request.Context(), query, c.Query("genre"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
