package api

import (
	"net/http"
	"strconv"

	"github.com/scentdex/scentdex-server/internal/store"
)

// queryInt parses an integer query parameter, returning def when absent or
// unparseable.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// queryBoolPtr parses an optional boolean query parameter. Absent or invalid
// values mean "no constraint".
func queryBoolPtr(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// filterFromQuery assembles the closed filter record from query parameters.
func filterFromQuery(r *http.Request) store.Filter {
	q := r.URL.Query()
	return store.Filter{
		Brand:         q.Get("brand"),
		Concentration: q.Get("concentration"),
		YearFrom:      queryInt(r, "year_from", 0),
		YearTo:        queryInt(r, "year_to", 0),
		Verified:      queryBoolPtr(r, "verified"),
		Season:        q.Get("season"),
		Occasion:      q.Get("occasion"),
		Mood:          q.Get("mood"),
	}
}
