package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scentdex/scentdex-server/internal/domain"
	"github.com/scentdex/scentdex-server/internal/http/response"
	"github.com/scentdex/scentdex-server/internal/store"
)

// fragranceListResponse is the paginated catalog listing.
type fragranceListResponse struct {
	Items  []*domain.Fragrance `json:"items"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// handleListFragrances serves the plain catalog listing: filters and
// pagination against the local store only, no variant expansion, no
// external tier.
func (s *Server) handleListFragrances(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	limit := store.ClampLimit(queryInt(r, "limit", store.DefaultLimit))
	offset := store.ClampOffset(queryInt(r, "offset", 0))
	query := r.URL.Query().Get("q")

	items, err := s.store.Search(r.Context(), query, filter, limit, offset)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	total, err := s.store.Count(r.Context(), query, filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if items == nil {
		items = []*domain.Fragrance{}
	}

	response.Success(w, fragranceListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, s.logger)
}

func (s *Server) handleGetFragrance(w http.ResponseWriter, r *http.Request) {
	fragranceID := chi.URLParam(r, "id")

	f, err := s.store.GetByID(r.Context(), fragranceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, f, s.logger)
}
