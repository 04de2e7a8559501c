package handlers

import (
	"net/http"

	"github.com/Vishal4742/sonica/internal/apierror"
	"github.com/gin-gonic/gin"
)

// RecognitionStats handles GET /api/v1/recognition/stats, merging
// catalogue-side recognition counters with vector index stats.
func (h *Handlers) RecognitionStats(c *gin.Context) {
	stats, err := h.kernel.Recognizer().Stats(c.Request.Context())
	if err != nil {
		writeAPIError(c, apierror.CatalogueError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health handles GET /api/v1/health, aggregating catalogue, vector
// index, and audio decoder health into one status.
func (h *Handlers) Health(c *gin.Context) {
	status := h.kernel.HealthCheck(c.Request.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
