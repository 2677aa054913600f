package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scentdex/scentdex-server/internal/domain"
	"github.com/scentdex/scentdex-server/internal/store"
)

// fragranceColumns is the ordered list of columns selected in fragrance
// queries. Must match the scan order in scanFragrance.
const fragranceColumns = `id, external_id, name, brand, release_year, concentration,
	notes_top, notes_middle, notes_base,
	rating, popularity, market_priority, trending, demographic,
	season, occasion, mood, verified, relevance_score,
	data_source, data_quality, promotion_reason, promoted_at, enhanced_at,
	created_at, updated_at`

// scanFragrance scans a sql.Row (or sql.Rows via its Scan method) into a domain.Fragrance.
func scanFragrance(scanner interface{ Scan(dest ...any) error }) (*domain.Fragrance, error) {
	var f domain.Fragrance

	var (
		externalID  sql.NullString
		releaseYear sql.NullInt64
		concen      sql.NullString
		notesTop    string
		notesMiddle string
		notesBase   string
		rating      sql.NullFloat64
		popularity  sql.NullFloat64
		trending    int
		demographic sql.NullString
		season      sql.NullString
		occasion    sql.NullString
		mood        sql.NullString
		verified    int
		promoReason sql.NullString
		promotedAt  sql.NullString
		enhancedAt  sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&f.ID,
		&externalID,
		&f.Name,
		&f.Brand,
		&releaseYear,
		&concen,
		&notesTop,
		&notesMiddle,
		&notesBase,
		&rating,
		&popularity,
		&f.MarketPriority,
		&trending,
		&demographic,
		&season,
		&occasion,
		&mood,
		&verified,
		&f.RelevanceScore,
		&f.DataSource,
		&f.DataQuality,
		&promoReason,
		&promotedAt,
		&enhancedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if externalID.Valid {
		f.ExternalID = externalID.String
	}
	if releaseYear.Valid {
		year := int(releaseYear.Int64)
		f.ReleaseYear = &year
	}
	if concen.Valid {
		f.Concentration = concen.String
	}
	if rating.Valid {
		r := rating.Float64
		f.Rating = &r
	}
	if popularity.Valid {
		p := popularity.Float64
		f.Popularity = &p
	}
	if demographic.Valid {
		f.Demographic = demographic.String
	}
	if season.Valid {
		f.Season = season.String
	}
	if occasion.Valid {
		f.Occasion = occasion.String
	}
	if mood.Valid {
		f.Mood = mood.String
	}
	if promoReason.Valid {
		f.PromotionReason = domain.PromotionReason(promoReason.String)
	}
	f.Trending = trending != 0
	f.Verified = verified != 0

	for _, pair := range []struct {
		raw string
		dst *[]string
	}{
		{notesTop, &f.NotesTop},
		{notesMiddle, &f.NotesMiddle},
		{notesBase, &f.NotesBase},
	} {
		if err := json.Unmarshal([]byte(pair.raw), pair.dst); err != nil {
			return nil, fmt.Errorf("unmarshal notes: %w", err)
		}
	}

	if f.PromotedAt, err = parseNullableTime(promotedAt); err != nil {
		return nil, err
	}
	if f.EnhancedAt, err = parseNullableTime(enhancedAt); err != nil {
		return nil, err
	}
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &f, nil
}

// marshalNotes serializes a note list, normalizing nil to an empty array.
func marshalNotes(notes []string) (string, error) {
	if notes == nil {
		notes = []string{}
	}
	b, err := json.Marshal(notes)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts a new fragrance record.
// A duplicate external ID or name+brand pair maps to store.ErrConflict.
func (s *Store) Create(ctx context.Context, f *domain.Fragrance) error {
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	notesTop, err := marshalNotes(f.NotesTop)
	if err != nil {
		return store.ErrInternal.WithCause(err)
	}
	notesMiddle, err := marshalNotes(f.NotesMiddle)
	if err != nil {
		return store.ErrInternal.WithCause(err)
	}
	notesBase, err := marshalNotes(f.NotesBase)
	if err != nil {
		return store.ErrInternal.WithCause(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fragrances (`+fragranceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID,
		nullString(f.ExternalID),
		f.Name,
		f.Brand,
		nullInt(f.ReleaseYear),
		nullString(f.Concentration),
		notesTop,
		notesMiddle,
		notesBase,
		nullFloat(f.Rating),
		nullFloat(f.Popularity),
		f.MarketPriority,
		boolToInt(f.Trending),
		nullString(f.Demographic),
		nullString(f.Season),
		nullString(f.Occasion),
		nullString(f.Mood),
		boolToInt(f.Verified),
		f.RelevanceScore,
		string(f.DataSource),
		f.DataQuality,
		nullString(string(f.PromotionReason)),
		nullTime(f.PromotedAt),
		nullTime(f.EnhancedAt),
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict.WithCause(err)
		}
		return store.ErrInternal.WithCause(err)
	}
	return nil
}

// GetByID returns a fragrance by local identifier.
func (s *Store) GetByID(ctx context.Context, fragranceID string) (*domain.Fragrance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fragranceColumns+` FROM fragrances WHERE id = ?`, fragranceID)
	f, err := scanFragrance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("fragrance not found")
	}
	if err != nil {
		return nil, store.ErrInternal.WithCause(err)
	}
	return f, nil
}

// GetByExternalID returns a fragrance by its third-party identifier.
func (s *Store) GetByExternalID(ctx context.Context, externalID string) (*domain.Fragrance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fragranceColumns+` FROM fragrances WHERE external_id = ?`, externalID)
	f, err := scanFragrance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("fragrance not found")
	}
	if err != nil {
		return nil, store.ErrInternal.WithCause(err)
	}
	return f, nil
}

// FindByNameBrand returns a fragrance matching the case-insensitive
// name+brand pair, or store.ErrNotFound.
func (s *Store) FindByNameBrand(ctx context.Context, name, brand string) (*domain.Fragrance, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+fragranceColumns+` FROM fragrances
		WHERE lower(name) = lower(?) AND lower(brand) = lower(?)`, name, brand)
	f, err := scanFragrance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("fragrance not found")
	}
	if err != nil {
		return nil, store.ErrInternal.WithCause(err)
	}
	return f, nil
}

// Enhance fills missing fields of an existing record from an external
// candidate. Non-null fields are never overwritten; the external ID, once
// set, is immutable. Returns the updated record.
func (s *Store) Enhance(ctx context.Context, fragranceID string, candidate *domain.Fragrance) (*domain.Fragrance, error) {
	existing, err := s.GetByID(ctx, fragranceID)
	if err != nil {
		return nil, err
	}

	if existing.ExternalID == "" && candidate.ExternalID != "" {
		existing.ExternalID = candidate.ExternalID
	}
	if existing.ReleaseYear == nil && candidate.ReleaseYear != nil {
		existing.ReleaseYear = candidate.ReleaseYear
	}
	if existing.Concentration == "" && candidate.Concentration != "" {
		existing.Concentration = candidate.Concentration
	}
	if len(existing.NotesTop) == 0 && len(candidate.NotesTop) > 0 {
		existing.NotesTop = candidate.NotesTop
	}
	if len(existing.NotesMiddle) == 0 && len(candidate.NotesMiddle) > 0 {
		existing.NotesMiddle = candidate.NotesMiddle
	}
	if len(existing.NotesBase) == 0 && len(candidate.NotesBase) > 0 {
		existing.NotesBase = candidate.NotesBase
	}
	if existing.Rating == nil && candidate.Rating != nil {
		existing.Rating = candidate.Rating
	}
	if existing.Popularity == nil && candidate.Popularity != nil {
		existing.Popularity = candidate.Popularity
	}
	if existing.Demographic == "" && candidate.Demographic != "" {
		existing.Demographic = candidate.Demographic
	}

	now := time.Now()
	existing.EnhancedAt = &now
	existing.UpdatedAt = now

	if err := s.update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// update rewrites every mutable column of a record.
func (s *Store) update(ctx context.Context, f *domain.Fragrance) error {
	notesTop, err := marshalNotes(f.NotesTop)
	if err != nil {
		return store.ErrInternal.WithCause(err)
	}
	notesMiddle, err := marshalNotes(f.NotesMiddle)
	if err != nil {
		return store.ErrInternal.WithCause(err)
	}
	notesBase, err := marshalNotes(f.NotesBase)
	if err != nil {
		return store.ErrInternal.WithCause(err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE fragrances SET
			external_id = ?, name = ?, brand = ?, release_year = ?, concentration = ?,
			notes_top = ?, notes_middle = ?, notes_base = ?,
			rating = ?, popularity = ?, market_priority = ?, trending = ?, demographic = ?,
			season = ?, occasion = ?, mood = ?, verified = ?, relevance_score = ?,
			data_source = ?, data_quality = ?, promotion_reason = ?,
			promoted_at = ?, enhanced_at = ?, updated_at = ?
		WHERE id = ?`,
		nullString(f.ExternalID),
		f.Name,
		f.Brand,
		nullInt(f.ReleaseYear),
		nullString(f.Concentration),
		notesTop,
		notesMiddle,
		notesBase,
		nullFloat(f.Rating),
		nullFloat(f.Popularity),
		f.MarketPriority,
		boolToInt(f.Trending),
		nullString(f.Demographic),
		nullString(f.Season),
		nullString(f.Occasion),
		nullString(f.Mood),
		boolToInt(f.Verified),
		f.RelevanceScore,
		string(f.DataSource),
		f.DataQuality,
		nullString(string(f.PromotionReason)),
		nullTime(f.PromotedAt),
		nullTime(f.EnhancedAt),
		formatTime(f.UpdatedAt),
		f.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict.WithCause(err)
		}
		return store.ErrInternal.WithCause(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return store.ErrInternal.WithCause(err)
	}
	if affected == 0 {
		return store.ErrNotFound.WithMessage("fragrance not found")
	}
	return nil
}

// buildPredicate translates text terms and the closed filter record into a
// WHERE clause. Search and Count share this builder so their predicates can
// never drift apart.
//
// Text terms match by containment on name, brand, or any of the three note
// lists. Multiple terms OR together; the caller caps the variant count.
func buildPredicate(terms []string, f store.Filter) (string, []any) {
	var clauses []string
	var args []any

	var termClauses []string
	for _, term := range terms {
		if term == "" {
			continue
		}
		termClauses = append(termClauses,
			`(name LIKE '%' || ? || '%'
			OR brand LIKE '%' || ? || '%'
			OR notes_top LIKE '%' || ? || '%'
			OR notes_middle LIKE '%' || ? || '%'
			OR notes_base LIKE '%' || ? || '%')`)
		args = append(args, term, term, term, term, term)
	}
	if len(termClauses) > 0 {
		clauses = append(clauses, "("+strings.Join(termClauses, " OR ")+")")
	}

	if f.Brand != "" {
		clauses = append(clauses, `brand LIKE '%' || ? || '%'`)
		args = append(args, f.Brand)
	}
	if f.Concentration != "" {
		clauses = append(clauses, `concentration = ? COLLATE NOCASE`)
		args = append(args, f.Concentration)
	}
	if f.YearFrom > 0 {
		clauses = append(clauses, `release_year >= ?`)
		args = append(args, f.YearFrom)
	}
	if f.YearTo > 0 {
		clauses = append(clauses, `release_year <= ?`)
		args = append(args, f.YearTo)
	}
	if f.Verified != nil {
		clauses = append(clauses, `verified = ?`)
		args = append(args, boolToInt(*f.Verified))
	}
	if f.Season != "" {
		clauses = append(clauses, `season = ? COLLATE NOCASE`)
		args = append(args, f.Season)
	}
	if f.Occasion != "" {
		clauses = append(clauses, `occasion = ? COLLATE NOCASE`)
		args = append(args, f.Occasion)
	}
	if f.Mood != "" {
		clauses = append(clauses, `mood = ? COLLATE NOCASE`)
		args = append(args, f.Mood)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// rankingOrder is the fixed three-key sort for local results.
// SQLite sorts NULL ratings last in descending order, which is what we want.
const rankingOrder = ` ORDER BY market_priority DESC, rating DESC, relevance_score DESC`

// Search executes the simple local query path: single-term containment plus
// structured filters, fixed ranking order. Read-only.
func (s *Store) Search(ctx context.Context, query string, f store.Filter, limit, offset int) ([]*domain.Fragrance, error) {
	var terms []string
	if strings.TrimSpace(query) != "" {
		terms = []string{strings.TrimSpace(query)}
	}
	return s.searchTerms(ctx, terms, f, limit, offset)
}

// SearchVariants executes the smart query path: a bounded OR-predicate over
// pre-expanded query variants. Variants beyond the expander's cap are ignored.
func (s *Store) SearchVariants(ctx context.Context, variants []string, f store.Filter, limit, offset int) ([]*domain.Fragrance, error) {
	return s.searchTerms(ctx, variants, f, limit, offset)
}

func (s *Store) searchTerms(ctx context.Context, terms []string, f store.Filter, limit, offset int) ([]*domain.Fragrance, error) {
	where, args := buildPredicate(terms, f)

	q := `SELECT ` + fragranceColumns + ` FROM fragrances` + where + rankingOrder + ` LIMIT ? OFFSET ?`
	args = append(args, store.ClampLimit(limit), store.ClampOffset(offset))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, store.ErrInternal.WithCause(err)
	}
	defer rows.Close()

	var results []*domain.Fragrance
	for rows.Next() {
		frag, err := scanFragrance(rows)
		if err != nil {
			return nil, store.ErrInternal.WithCause(err)
		}
		results = append(results, frag)
	}
	if err := rows.Err(); err != nil {
		return nil, store.ErrInternal.WithCause(err)
	}
	return results, nil
}

// Count returns the cardinality of the Search predicate, for pagination.
func (s *Store) Count(ctx context.Context, query string, f store.Filter) (int, error) {
	var terms []string
	if strings.TrimSpace(query) != "" {
		terms = []string{strings.TrimSpace(query)}
	}
	return s.countTerms(ctx, terms, f)
}

// CountVariants returns the cardinality of the SearchVariants predicate.
func (s *Store) CountVariants(ctx context.Context, variants []string, f store.Filter) (int, error) {
	return s.countTerms(ctx, variants, f)
}

func (s *Store) countTerms(ctx context.Context, terms []string, f store.Filter) (int, error) {
	where, args := buildPredicate(terms, f)

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragrances`+where, args...).Scan(&count)
	if err != nil {
		return 0, store.ErrInternal.WithCause(err)
	}
	return count, nil
}

// AutocompleteNames returns fragrance names starting with prefix, ordered by
// stored relevance score. This is the fallback path when the search index is
// unavailable.
func (s *Store) AutocompleteNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM fragrances
		WHERE name LIKE ? || '%'
		ORDER BY relevance_score DESC, name ASC
		LIMIT ?`, prefix, store.ClampLimit(limit))
	if err != nil {
		return nil, store.ErrInternal.WithCause(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, store.ErrInternal.WithCause(err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListAll returns every record. Used by the index rebuilder and the importer.
func (s *Store) ListAll(ctx context.Context) ([]*domain.Fragrance, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+fragranceColumns+` FROM fragrances`)
	if err != nil {
		return nil, store.ErrInternal.WithCause(err)
	}
	defer rows.Close()

	var results []*domain.Fragrance
	for rows.Next() {
		frag, err := scanFragrance(rows)
		if err != nil {
			return nil, store.ErrInternal.WithCause(err)
		}
		results = append(results, frag)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation reports whether err is a SQLite uniqueness failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
