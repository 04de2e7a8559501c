package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Vishal4742/sonica/internal/apierror"
	"github.com/Vishal4742/sonica/internal/catalogue"
	"github.com/Vishal4742/sonica/internal/util"
	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// GetHistory handles GET /api/v1/recognition/history. Invariant A1:
// userID comes only from the authenticated principal set by
// middleware.RequireAuth, never from a query parameter.
func (h *Handlers) GetHistory(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
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

	entries, err := h.kernel.Catalogue().GetRecognitionHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeAPIError(c, apierror.CatalogueError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries, "limit": limit, "offset": offset})
}

// DeleteHistory handles DELETE /api/v1/recognition/history/:id. The
// catalogue layer re-verifies ownership server-side before deleting —
// this handler's job is only to supply the authenticated userID, never
// to trust a client-asserted one.
func (h *Handlers) DeleteHistory(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	recognitionID := c.Param("id")
	if recognitionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recognition id is required"})
		return
	}

	err := h.kernel.Catalogue().DeleteRecognitionHistory(c.Request.Context(), recognitionID, userID)
	if err != nil {
		if errors.Is(err, catalogue.ErrRecognitionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recognition entry not found"})
			return
		}
		writeAPIError(c, apierror.CatalogueError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": recognitionID})
}
