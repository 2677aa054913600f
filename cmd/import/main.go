// Package main provides the bulk CSV importer for the scentdex catalog.
//
// Expected CSV columns (header row required):
//
//	name,brand,release_year,concentration,notes_top,notes_middle,notes_base,rating,popularity,season,occasion,mood
//
// Note lists use ';' as the in-field separator. Rows that collide with an
// existing name+brand pair are skipped, so re-running an import is safe.
//
// Usage:
//
//	go run ./cmd/import --csv fragrances.csv --data-path ~/scentdex/data
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/scentdex/scentdex-server/internal/domain"
	"github.com/scentdex/scentdex-server/internal/id"
	"github.com/scentdex/scentdex-server/internal/logger"
	"github.com/scentdex/scentdex-server/internal/populate"
	"github.com/scentdex/scentdex-server/internal/search"
	"github.com/scentdex/scentdex-server/internal/store"
	"github.com/scentdex/scentdex-server/internal/store/sqlite"
)

// importWorkers bounds concurrent inserts. SQLite serializes writes anyway;
// the workers overlap parsing and indexing, not disk writes.
const importWorkers = 4

func main() {
	csvPath := flag.String("csv", "", "Path to the fragrance CSV file")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "--csv is required")
		os.Exit(1)
	}
	if *dataPath == "" {
		*dataPath = os.ExpandEnv("$HOME/scentdex/data")
	}

	log := logger.New(logger.Config{Level: logger.ParseLevel(os.Getenv("LOG_LEVEL"))})

	if err := run(*csvPath, *dataPath, log); err != nil {
		log.Error("Import failed", "error", err)
		os.Exit(1)
	}
}

func run(csvPath, dataPath string, log *logger.Logger) error {
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return err
	}

	st, err := sqlite.Open(dataPath+"/scentdex.db", log.Logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	idx, err := search.NewIndex(search.Options{DataPath: dataPath, Logger: log.Logger})
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	defer idx.Close()

	file, err := os.Open(csvPath) //#nosec G304 -- path comes from the operator
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var imported, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importWorkers)

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		rowLine := line

		g.Go(func() error {
			f, err := parseRow(columns, record)
			if err != nil {
				log.Warn("Skipping malformed row", "line", rowLine, "error", err)
				failed.Add(1)
				return nil
			}

			if err := st.Create(gctx, f); err != nil {
				if errors.Is(err, store.ErrConflict) {
					skipped.Add(1)
					return nil
				}
				failed.Add(1)
				log.Warn("Insert failed", "line", rowLine, "name", f.Name, "error", err)
				return nil
			}

			if err := idx.IndexDocument(search.FromFragrance(f)); err != nil {
				log.Warn("Index failed", "id", f.ID, "error", err)
			}
			imported.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	count, _ := idx.DocumentCount()
	log.Info("Import complete",
		"imported", imported.Load(),
		"skipped", skipped.Load(),
		"failed", failed.Load(),
		"indexed_total", count,
	)
	return nil
}

// mapColumns resolves header names to positions so column order is free.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "brand"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return columns, nil
}

// parseRow converts one CSV record into a catalog entity with derived fields.
func parseRow(columns map[string]int, record []string) (*domain.Fragrance, error) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := get("name")
	brand := get("brand")
	if name == "" || brand == "" {
		return nil, fmt.Errorf("empty name or brand")
	}

	f := &domain.Fragrance{
		ID:            id.MustGenerate("frag"),
		Name:          populate.CleanName(name, brand),
		Brand:         brand,
		Concentration: get("concentration"),
		NotesTop:      splitNotes(get("notes_top")),
		NotesMiddle:   splitNotes(get("notes_middle")),
		NotesBase:     splitNotes(get("notes_base")),
		Season:        get("season"),
		Occasion:      get("occasion"),
		Mood:          get("mood"),
		Verified:      true,
		DataSource:    domain.SourceNativeImport,
	}

	if raw := get("release_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("release_year %q: %w", raw, err)
		}
		f.ReleaseYear = &year
	}
	if raw := get("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("rating %q: %w", raw, err)
		}
		f.Rating = &rating
	}
	if raw := get("popularity"); raw != "" {
		popularity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("popularity %q: %w", raw, err)
		}
		f.Popularity = &popularity
	}

	f.MarketPriority = populate.BrandPriority(f.Brand)
	f.DataQuality = populate.DeriveQuality(f)
	f.RelevanceScore = f.MarketPriority

	return f, nil
}

// splitNotes splits a ';'-separated note list, dropping empties.
func splitNotes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	notes := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			notes = append(notes, trimmed)
		}
	}
	return notes
}
