// Package index provides nearest-neighbor search over normalized catalog
// feature vectors.
package index

import (
	"math"
	"sort"

	"moodmatch/internal/catalog"
)

// tempoScale rescales tempo into range comparable with the [0,1] audio
// attributes, so it does not dominate distance calculations.
const tempoScale = 200.0

// matchAttributes is the fixed attribute set used for matching.
var matchAttributes = []string{
	catalog.FeatureValence,
	catalog.FeatureEnergy,
	catalog.FeatureDanceability,
	catalog.FeatureTempo,
}

// Index is a normalized feature matrix with a parallel track list. It is
// derived from a catalog, rebuildable at any time, and read-only once
// built.
type Index struct {
	attrs       []string
	matrix      [][]float64
	tracks      []catalog.Track
	fingerprint string
}

// Match pairs a track with its similarity to a query vector.
type Match struct {
	Track      catalog.Track
	Similarity float64
}

// Build constructs the index over a catalog.
func Build(c *catalog.Catalog) *Index {
	tracks := c.Tracks()
	idx := &Index{
		attrs:       matchAttributes,
		matrix:      make([][]float64, len(tracks)),
		tracks:      tracks,
		fingerprint: Fingerprint(c),
	}
	for i, t := range tracks {
		idx.matrix[i] = normalize(t.Features)
	}
	return idx
}

// normalize projects a feature mapping onto the match attributes, applying
// the same scaling used for query vectors.
func normalize(features map[string]float64) []float64 {
	row := make([]float64, len(matchAttributes))
	for j, attr := range matchAttributes {
		v := features[attr]
		if attr == catalog.FeatureTempo {
			v /= tempoScale
		}
		row[j] = v
	}
	return row
}

// Len returns the number of indexed tracks.
func (idx *Index) Len() int {
	return len(idx.tracks)
}

// Nearest returns up to k tracks closest to the target vector, ranked by
// ascending Euclidean distance in the normalized space. Ties are broken by
// higher popularity, then by catalog insertion order. Similarity is
// 1/(1+distance), always in (0,1].
func (idx *Index) Nearest(target map[string]float64, k int, exclude map[string]bool) []Match {
	if k <= 0 {
		return nil
	}

	query := normalize(target)

	type candidate struct {
		row      int
		distance float64
	}

	candidates := make([]candidate, 0, len(idx.tracks))
	for i := range idx.tracks {
		if exclude[idx.tracks[i].ID] {
			continue
		}
		candidates = append(candidates, candidate{row: i, distance: euclidean(query, idx.matrix[i])})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return idx.tracks[candidates[i].row].Popularity > idx.tracks[candidates[j].row].Popularity
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	matches := make([]Match, k)
	for i := 0; i < k; i++ {
		matches[i] = Match{
			Track:      idx.tracks[candidates[i].row],
			Similarity: 1.0 / (1.0 + candidates[i].distance),
		}
	}
	return matches
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
