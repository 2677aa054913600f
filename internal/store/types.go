package store

// Filter is the closed, explicitly-enumerated filter record applied to local
// store queries. Every field is optional; zero values mean "no constraint".
// Keeping the set closed (rather than an open map) makes the
// filter-to-predicate translation exhaustively testable.
type Filter struct {
	Brand         string // substring match, case-insensitive
	Concentration string // exact match
	YearFrom      int    // inclusive
	YearTo        int    // inclusive
	Verified      *bool  // exact match when set
	Season        string // exact match
	Occasion      string // exact match
	Mood          string // exact match
}

// IsZero reports whether no filter constraint is set.
func (f Filter) IsZero() bool {
	return f.Brand == "" && f.Concentration == "" &&
		f.YearFrom == 0 && f.YearTo == 0 && f.Verified == nil &&
		f.Season == "" && f.Occasion == "" && f.Mood == ""
}

// Pagination defaults shared by the store and the index adapter.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ClampLimit normalizes a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampOffset normalizes a requested page offset.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
