package api

import (
	"net/http"

	"github.com/scentdex/scentdex-server/internal/http/response"
)

// handleUsageStats exposes the external API budget so an operator can see
// degraded (local-only) mode coming before it happens.
func (s *Server) handleUsageStats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.engine.UsageStats(), s.logger)
}

func (s *Server) handlePopulationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.PopulationStats(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}
