package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for fragrance documents.
//
// Priorities:
//  1. Fast full-text search on names with English stemming
//  2. Brand matching without stemming (brand names are proper nouns)
//  3. Exact keyword matching for concentration/season/occasion/mood filters
//  4. Numeric range queries for year and rating
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Name - primary search target
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Brand - simple analyzer, no stemming ("Creed" must not stem)
	brandFieldMapping := bleve.NewTextFieldMapping()
	brandFieldMapping.Analyzer = simple.Name
	brandFieldMapping.Store = true
	brandFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("brand", brandFieldMapping)

	// Notes - flattened pyramid, searchable but not stored
	notesFieldMapping := bleve.NewTextFieldMapping()
	notesFieldMapping.Analyzer = en.AnalyzerName
	notesFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("notes", notesFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	for _, field := range []string{"concentration", "season", "occasion", "mood", "data_source"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	// --- Numeric fields (range queries, sorting) ---

	for _, field := range []string{
		"release_year", "rating", "popularity",
		"market_priority", "relevance", "created_at", "updated_at",
	} {
		fm := bleve.NewNumericFieldMapping()
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
