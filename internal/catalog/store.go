package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Store persists the catalog cache artifact as a flat CSV file, one row per
// track. Writes go through a temp file and an atomic rename so readers
// never observe a partially written artifact, and a mutex keeps writes
// single-writer within the process.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store for the given cache path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache artifact location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a cache artifact is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// header returns the CSV column set: metadata first, then the fixed
// feature columns.
func header() []string {
	cols := []string{"id", "name", "artist", "album", "genre", "external_url", "popularity"}
	return append(cols, FeatureColumns...)
}

// Save writes the catalog to the cache artifact, replacing any prior one.
func (s *Store) Save(c *Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "catalog-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache header: %w", err)
	}

	for _, t := range c.Tracks() {
		row := []string{
			t.ID,
			t.Name,
			t.Artist,
			t.Album,
			t.Genre,
			t.ExternalURL,
			strconv.Itoa(t.Popularity),
		}
		for _, col := range FeatureColumns {
			row = append(row, strconv.FormatFloat(t.Features[col], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("writing cache row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing cache artifact: %w", err)
	}
	return nil
}

// Load reads the cache artifact back into a catalog.
func (s *Store) Load() (*Catalog, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening cache artifact: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading cache artifact: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("cache artifact %s is empty", s.path)
	}

	want := header()
	if len(records[0]) != len(want) {
		return nil, fmt.Errorf("cache artifact has %d columns, want %d", len(records[0]), len(want))
	}

	c := New()
	for i, row := range records[1:] {
		popularity, err := strconv.Atoi(row[6])
		if err != nil {
			return nil, fmt.Errorf("parsing popularity in row %d: %w", i+1, err)
		}

		features := make(map[string]float64, len(FeatureColumns))
		for j, col := range FeatureColumns {
			v, err := strconv.ParseFloat(row[7+j], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing %s in row %d: %w", col, i+1, err)
			}
			features[col] = v
		}

		c.Add(Track{
			ID:          row[0],
			Name:        row[1],
			Artist:      row[2],
			Album:       row[3],
			Genre:       row[4],
			ExternalURL: row[5],
			Popularity:  popularity,
			Features:    features,
		})
	}
	return c, nil
}
