package metrics

import (
	"sync"
)

// Manager exposes a coarse snapshot view on top of the raw Prometheus
// registry. No HTTP endpoint serves it.
type Manager struct {
	mu sync.RWMutex
}

var globalManager *Manager
var managerOnce sync.Once

// GetManager returns the global metrics manager (singleton).
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{}
	})
	return globalManager
}

// GetAllMetrics returns a coarse snapshot suitable for a debug endpoint.
// Prometheus scraping (via promhttp) remains the source of truth for
// real dashboards; this just confirms the registry is alive.
func (m *Manager) GetAllMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"initialized": instance != nil,
	}
}
