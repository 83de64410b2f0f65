package index

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"moodmatch/internal/catalog"
)

// persisted is the on-disk shape of an index artifact.
type persisted struct {
	Fingerprint string          `json:"fingerprint"`
	Attributes  []string        `json:"attributes"`
	Matrix      [][]float64     `json:"matrix"`
	Tracks      []catalog.Track `json:"tracks"`
}

// Fingerprint identifies a catalog by size and track id sequence, used to
// detect when a persisted index no longer matches the catalog.
func Fingerprint(c *catalog.Catalog) string {
	h := fnv.New64a()
	for _, t := range c.Tracks() {
		h.Write([]byte(t.ID))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%d-%x", c.Len(), h.Sum64())
}

// Save writes the index artifact, going through a temp file and atomic
// rename like the catalog cache.
func Save(path string, idx *Index) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "index-*.json")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	p := persisted{
		Fingerprint: idx.fingerprint,
		Attributes:  idx.attrs,
		Matrix:      idx.matrix,
		Tracks:      idx.tracks,
	}
	if err := json.NewEncoder(tmp).Encode(p); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp index file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing index artifact: %w", err)
	}
	return nil
}

// Load reads a persisted index artifact.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index artifact: %w", err)
	}
	defer f.Close()

	var p persisted
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding index artifact: %w", err)
	}
	if len(p.Matrix) != len(p.Tracks) {
		return nil, fmt.Errorf("index artifact is inconsistent: %d rows, %d tracks", len(p.Matrix), len(p.Tracks))
	}

	return &Index{
		attrs:       p.Attributes,
		matrix:      p.Matrix,
		tracks:      p.Tracks,
		fingerprint: p.Fingerprint,
	}, nil
}

// LoadOrBuild returns the persisted index when it is consistent with the
// catalog, otherwise rebuilds and persists it.
func LoadOrBuild(path string, c *catalog.Catalog) (*Index, error) {
	if idx, err := Load(path); err == nil && idx.fingerprint == Fingerprint(c) {
		return idx, nil
	}

	idx := Build(c)
	if err := Save(path, idx); err != nil {
		return nil, err
	}
	return idx, nil
}
