package api

import (
	"net/http"

	"github.com/scentdex/scentdex-server/internal/http/response"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"` // healthy, degraded, or unhealthy
	Message string `json:"message,omitempty"`
}

// HealthResponse contains health check data.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	if _, err := s.store.Total(r.Context()); err != nil {
		components["store"] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
		overall = "unhealthy"
	} else {
		components["store"] = ComponentHealth{Status: "healthy"}
	}

	if _, err := s.search.DocumentCount(); err != nil {
		components["search_index"] = ComponentHealth{Status: "degraded", Message: err.Error()}
		if overall == "healthy" {
			overall = "degraded"
		}
	} else {
		components["search_index"] = ComponentHealth{Status: "healthy"}
	}

	// An unreachable external catalog is degraded operation, not an outage:
	// search keeps answering from local data.
	if s.engine.ExternalAvailable() {
		components["metadata_api"] = ComponentHealth{Status: "healthy"}
	} else {
		usage := s.engine.UsageStats()
		msg := "no credentials configured, local-only mode"
		if usage.Remaining <= 0 && usage.Limit > 0 && usage.Used > 0 {
			msg = "daily budget exhausted"
		}
		components["metadata_api"] = ComponentHealth{Status: "degraded", Message: msg}
		if overall == "healthy" {
			overall = "degraded"
		}
	}

	status := http.StatusOK
	if overall == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, HealthResponse{Status: overall, Components: components}, s.logger)
}
