// Package search provides full-text fragrance search using Bleve.
// It backs the primary search path with boosted field matching, typo-tolerant
// fuzzy queries, and prefix matching for autocomplete.
package search

import (
	"strings"

	"github.com/scentdex/scentdex-server/internal/domain"
)

// Document is the flattened fragrance representation stored in the Bleve
// index. Note pyramids are denormalized into a single text field so a single
// match query covers them; the structured copies stay in SQLite.
type Document struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	Notes          []string `json:"notes,omitempty"`
	Concentration  string   `json:"concentration,omitempty"`
	Season         string   `json:"season,omitempty"`
	Occasion       string   `json:"occasion,omitempty"`
	Mood           string   `json:"mood,omitempty"`
	DataSource     string   `json:"data_source"`
	ReleaseYear    int      `json:"release_year,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	Popularity     float64  `json:"popularity,omitempty"`
	MarketPriority float64  `json:"market_priority"`
	Relevance      float64  `json:"relevance"`
	CreatedAt      int64    `json:"created_at"` // Unix millis
	UpdatedAt      int64    `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names so they
// match the index mapping. Bleve would otherwise index Go field names.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":              d.ID,
		"name":            d.Name,
		"brand":           d.Brand,
		"data_source":     d.DataSource,
		"market_priority": d.MarketPriority,
		"relevance":       d.Relevance,
		"created_at":      d.CreatedAt,
		"updated_at":      d.UpdatedAt,
	}

	if len(d.Notes) > 0 {
		m["notes"] = d.Notes
	}
	if d.Concentration != "" {
		m["concentration"] = strings.ToLower(d.Concentration)
	}
	if d.Season != "" {
		m["season"] = strings.ToLower(d.Season)
	}
	if d.Occasion != "" {
		m["occasion"] = strings.ToLower(d.Occasion)
	}
	if d.Mood != "" {
		m["mood"] = strings.ToLower(d.Mood)
	}
	if d.ReleaseYear > 0 {
		m["release_year"] = d.ReleaseYear
	}
	if d.Rating > 0 {
		m["rating"] = d.Rating
	}
	if d.Popularity > 0 {
		m["popularity"] = d.Popularity
	}

	return m
}

// FromFragrance converts a catalog record to its index document.
func FromFragrance(f *domain.Fragrance) *Document {
	doc := &Document{
		ID:             f.ID,
		Name:           f.Name,
		Brand:          f.Brand,
		Concentration:  f.Concentration,
		Season:         f.Season,
		Occasion:       f.Occasion,
		Mood:           f.Mood,
		DataSource:     string(f.DataSource),
		MarketPriority: f.MarketPriority,
		Relevance:      f.RelevanceScore,
		CreatedAt:      f.CreatedAt.UnixMilli(),
		UpdatedAt:      f.UpdatedAt.UnixMilli(),
	}

	notes := make([]string, 0, len(f.NotesTop)+len(f.NotesMiddle)+len(f.NotesBase))
	notes = append(notes, f.NotesTop...)
	notes = append(notes, f.NotesMiddle...)
	notes = append(notes, f.NotesBase...)
	doc.Notes = notes

	if f.ReleaseYear != nil {
		doc.ReleaseYear = *f.ReleaseYear
	}
	if f.Rating != nil {
		doc.Rating = *f.Rating
	}
	if f.Popularity != nil {
		doc.Popularity = *f.Popularity
	}

	return doc
}
