// Package handlers implements the HTTP surface of the recognition
// service: recognize, recognition history, ingestion, catalogue search,
// recognition stats, and service health.
package handlers

import (
	"net/http"

	"github.com/Vishal4742/sonica/internal/apierror"
	"github.com/Vishal4742/sonica/internal/kernel"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the kernel and the request-time tunables every
// handler needs, so route registration can stay a thin one-liner per
// endpoint.
type Handlers struct {
	kernel        *kernel.Kernel
	maxAudioSize  int64
	minDuration   float64
	maxDuration   float64
	vectorDims    int
}

// New constructs a Handlers bound to the given kernel and audio limits.
func New(k *kernel.Kernel, maxAudioSize int64, minDuration, maxDuration float64, vectorDims int) *Handlers {
	return &Handlers{
		kernel:       k,
		maxAudioSize: maxAudioSize,
		minDuration:  minDuration,
		maxDuration:  maxDuration,
		vectorDims:   vectorDims,
	}
}

// writeAPIError maps an apierror.APIError onto its declared HTTP status,
// or falls back to 500 for an error this layer doesn't recognise.
func writeAPIError(c *gin.Context, err error) {
	if apiErr, ok := err.(*apierror.APIError); ok {
		c.JSON(apiErr.Status, apiErr)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "INTERNAL_ERROR",
		"message": err.Error(),
	})
}
