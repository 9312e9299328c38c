// Package phrases loads the secret phrases the actors act out. Phrases are
// grouped by category and come from the embedded dataset, a JSON or CSV
// file, or a database.
package phrases

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal/config"
)

//go:embed categories.json
var embedded []byte

var ErrEmptyCategory = errors.New("category has no phrases")

// Catalog maps a category name to its phrases.
type Catalog map[string][]string

// Store is a phrase source backed by a database.
type Store interface {
	LoadPhrases(ctx context.Context, category string) ([]string, error)
}

// Embedded is the dataset compiled into the binary.
func Embedded() (Catalog, error) {
	return ParseJSON(bytes.NewReader(embedded))
}

// ParseJSON reads an object of category name to phrase list.
func ParseJSON(r io.Reader) (Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode phrases: %w", err)
	}
	return c, nil
}

// ParseCSV reads "category,phrase" records. Short records are skipped.
func ParseCSV(r io.Reader) (Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse phrases csv: %w", err)
	}

	c := make(Catalog)
	for _, record := range records {
		if len(record) < 2 {
			zap.L().Warn("skipping invalid phrase record", zap.Strings("record", record))
			continue
		}
		category := strings.TrimSpace(record[0])
		c[category] = append(c[category], record[1])
	}
	return c, nil
}

// LoadFile reads a catalog from a .json or .csv file.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phrases file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(f)
	case ".json":
		return ParseJSON(f)
	default:
		return nil, fmt.Errorf("unsupported phrases file %q", path)
	}
}

// Phrases returns the cleaned phrase list of category.
func (c Catalog) Phrases(category string) ([]string, error) {
	out := Clean(c[category])
	if len(out) == 0 {
		return nil, fmt.Errorf("%q: %w", category, ErrEmptyCategory)
	}
	return out, nil
}

// Clean trims phrases and drops blanks and case-insensitive duplicates,
// keeping the first spelling.
func Clean(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Load returns the phrases of the configured category from the configured
// source. store is only used for the postgres source.
func Load(ctx context.Context, cfg config.PhrasesConfig, store Store) ([]string, error) {
	switch cfg.Source {
	case config.PhrasesPostgres:
		if store == nil {
			return nil, errors.New("postgres phrase source without a database")
		}
		list, err := store.LoadPhrases(ctx, cfg.Category)
		if err != nil {
			return nil, fmt.Errorf("load phrases from database: %w", err)
		}
		return Catalog{cfg.Category: list}.Phrases(cfg.Category)

	case config.PhrasesFile:
		c, err := LoadFile(cfg.File)
		if err != nil {
			return nil, err
		}
		return c.Phrases(cfg.Category)

	default:
		c, err := Embedded()
		if err != nil {
			return nil, err
		}
		return c.Phrases(cfg.Category)
	}
}
