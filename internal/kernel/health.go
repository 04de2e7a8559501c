package kernel

import (
	"context"

	"github.com/Vishal4742/sonica/internal/models"
)

// HealthCheck aggregates catalogue, vector index, and audio decoder
// health into one status, backing GET /api/v1/health.
func (k *Kernel) HealthCheck(ctx context.Context) models.HealthStatus {
	status := models.HealthStatus{Healthy: true}

	if c := k.Catalogue(); c != nil {
		ok := c.Health(ctx)
		status.Catalogue = models.ComponentHealth{Healthy: ok}
		if !ok {
			status.Healthy = false
			status.Catalogue.Detail = "catalogue health check failed"
		}
	} else {
		status.Healthy = false
		status.Catalogue = models.ComponentHealth{Healthy: false, Detail: "not configured"}
	}

	if v := k.VectorIndex(); v != nil {
		ok := v.Health(ctx)
		status.Vector = models.ComponentHealth{Healthy: ok}
		if !ok {
			status.Healthy = false
			status.Vector.Detail = "vector index health check failed"
		}
	} else {
		status.Healthy = false
		status.Vector = models.ComponentHealth{Healthy: false, Detail: "not configured"}
	}

	if k.Decoder() != nil {
		status.Audio = models.ComponentHealth{Healthy: true}
	} else {
		status.Healthy = false
		status.Audio = models.ComponentHealth{Healthy: false, Detail: "not configured"}
	}

	return status
}
