package api

import (
	"net/http"

	"github.com/scentdex/scentdex-server/internal/http/response"
	"github.com/scentdex/scentdex-server/internal/service"
)

// searchQuery carries the validated search parameters.
type searchQuery struct {
	Query     string `json:"q" validate:"required,min=1,max=200"`
	Limit     int    `json:"limit" validate:"gte=0,lte=100"`
	Offset    int    `json:"offset" validate:"gte=0"`
	SortBy    string `json:"sort" validate:"omitempty,oneof=relevance name brand year rating popularity"`
	SortOrder string `json:"order" validate:"omitempty,oneof=asc desc"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := searchQuery{
		Query:     r.URL.Query().Get("q"),
		Limit:     queryInt(r, "limit", 20),
		Offset:    queryInt(r, "offset", 0),
		SortBy:    r.URL.Query().Get("sort"),
		SortOrder: r.URL.Query().Get("order"),
	}
	if err := s.validator.Validate(params); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.search.Search(r.Context(), service.SearchRequest{
		Query:     params.Query,
		Filter:    filterFromQuery(r),
		Limit:     params.Limit,
		Offset:    params.Offset,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// autocompleteQuery carries the validated autocomplete parameters.
type autocompleteQuery struct {
	Prefix string `json:"q" validate:"required,max=100"`
	Limit  int    `json:"limit" validate:"gte=0,lte=100"`
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	params := autocompleteQuery{
		Prefix: r.URL.Query().Get("q"),
		Limit:  queryInt(r, "limit", 10),
	}
	if err := s.validator.Validate(params); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	names, err := s.search.Autocomplete(r.Context(), params.Prefix, params.Limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"suggestions": names}, s.logger)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.search.ReindexAll(r.Context()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	count, err := s.search.DocumentCount()
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{"indexed": count}, s.logger)
}
