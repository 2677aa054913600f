// Package domain defines the core entities of the scentdex catalog.
package domain

import "time"

// DataSource identifies where a fragrance record came from.
type DataSource string

// Data sources for fragrance records.
const (
	// SourceNativeImport marks records created by the bulk CSV import.
	SourceNativeImport DataSource = "native-import"
	// SourceAPIPromoted marks records discovered externally and materialized
	// into the local store by the population engine.
	SourceAPIPromoted DataSource = "api-promoted"
	// SourceAPITransient marks view-model projections of external results
	// that were never persisted. Transient records carry no local ID.
	SourceAPITransient DataSource = "api-only-transient"
)

// PromotionReason records which quality-gate clause fired when a record
// was promoted. Evaluated in fixed order; first match wins.
type PromotionReason string

// Promotion reasons, in evaluation order.
const (
	ReasonTierOneBrand   PromotionReason = "tier-1-brand"
	ReasonHighRating     PromotionReason = "high-rating"
	ReasonPopularity     PromotionReason = "popularity"
	ReasonTrending       PromotionReason = "trending"
	ReasonQualityProfile PromotionReason = "quality-profile"
)

// Fragrance is the canonical catalog entity.
//
// Records are created either by the bulk importer (native-import) or by the
// population engine (api-promoted). Enhancement passes fill fields that are
// currently null; existing non-null fields are never overwritten by
// lower-confidence external data. The core never hard-deletes records.
type Fragrance struct {
	// ID is the stable local identifier. Empty for transient records.
	ID string `json:"id,omitempty"`

	// ExternalID references the third-party metadata source.
	// Once set it is immutable; it is the idempotent promotion key.
	ExternalID string `json:"external_id,omitempty"`

	Name  string `json:"name"`
	Brand string `json:"brand"`

	ReleaseYear   *int   `json:"release_year,omitempty"`
	Concentration string `json:"concentration,omitempty"` // e.g. "EDP", "EDT", "Parfum"

	// Note pyramids. Order is semantically meaningful (opening to drydown),
	// not just insertion order.
	NotesTop    []string `json:"notes_top,omitempty"`
	NotesMiddle []string `json:"notes_middle,omitempty"`
	NotesBase   []string `json:"notes_base,omitempty"`

	Rating     *float64 `json:"rating,omitempty"`     // community rating, 0-5
	Popularity *float64 `json:"popularity,omitempty"` // unbounded positive

	// MarketPriority is derived from the brand tier table (0.0-1.0).
	// It is recomputed whenever the brand changes, never edited directly.
	MarketPriority float64 `json:"market_priority"`

	Trending    bool   `json:"trending"`
	Demographic string `json:"demographic,omitempty"` // derived target-demographic tag

	Season   string `json:"season,omitempty"`
	Occasion string `json:"occasion,omitempty"`
	Mood     string `json:"mood,omitempty"`
	Verified bool   `json:"verified"`

	// RelevanceScore is a stored ranking hint used as the final sort key
	// in local store queries.
	RelevanceScore float64 `json:"relevance_score"`

	DataSource  DataSource `json:"data_source"`
	DataQuality float64    `json:"data_quality"` // derived completeness score, 0.0-1.0

	PromotionReason PromotionReason `json:"promotion_reason,omitempty"`
	PromotedAt      *time.Time      `json:"promoted_at,omitempty"` // set only on cold-to-hot promotion
	EnhancedAt      *time.Time      `json:"enhanced_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quality-gate thresholds.
const (
	GoodRatingThreshold    = 4.0
	PriorityBrandThreshold = 0.7
	PopularityThreshold    = 50.0
)

// HasGoodRating reports whether the community rating passes the quality gate.
func (f *Fragrance) HasGoodRating() bool {
	return f.Rating != nil && *f.Rating >= GoodRatingThreshold
}

// IsPriorityBrand reports whether the market-priority weight passes the gate.
func (f *Fragrance) IsPriorityBrand() bool {
	return f.MarketPriority >= PriorityBrandThreshold
}

// HasCompleteNotes reports whether all three note lists are nonempty.
func (f *Fragrance) HasCompleteNotes() bool {
	return len(f.NotesTop) > 0 && len(f.NotesMiddle) > 0 && len(f.NotesBase) > 0
}

// IsPopular reports whether the popularity score passes the quality gate.
func (f *Fragrance) IsPopular() bool {
	return f.Popularity != nil && *f.Popularity > PopularityThreshold
}

// PassesQualityGate reports whether any of the four promotion signals fires.
// The gate is an unweighted OR: a note-complete niche record promotes just as
// eagerly as a highly rated one.
func (f *Fragrance) PassesQualityGate() bool {
	return f.HasGoodRating() || f.IsPriorityBrand() || f.HasCompleteNotes() || f.IsPopular()
}

// IsTransient reports whether this record is an unpersisted projection.
func (f *Fragrance) IsTransient() bool {
	return f.DataSource == SourceAPITransient
}
