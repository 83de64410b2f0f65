// Package recommend ranks catalog tracks against emotion target features.
// It is the public surface consumed by the CLI and web layers.
package recommend

import (
	"errors"
	"fmt"

	"moodmatch/internal/catalog"
	"moodmatch/internal/emotion"
	"moodmatch/internal/index"
)

// ErrNoCatalog is returned when recommendations are requested before a
// usable catalog and index exist.
var ErrNoCatalog = errors.New("no track catalog available")

// Recommendation is the ranked track view returned to callers.
type Recommendation struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album"`
	Popularity      int     `json:"popularity"`
	ExternalURL     string  `json:"external_url"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Recommender answers similarity queries over a built catalog and index.
// Both are read-only after construction, so a Recommender is safe for
// concurrent use.
type Recommender struct {
	catalog *catalog.Catalog
	index   *index.Index
	lexicon *emotion.Lexicon
}

// New creates a recommender over a catalog, its index and the emotion
// lexicon.
func New(c *catalog.Catalog, idx *index.Index, lexicon *emotion.Lexicon) *Recommender {
	return &Recommender{catalog: c, index: idx, lexicon: lexicon}
}

// ByFeatures recommends tracks nearest to a possibly partial target
// feature vector. Attributes not supplied default to the neutral emotion's
// values.
func (r *Recommender) ByFeatures(features map[string]float64, limit int) ([]Recommendation, error) {
	if r.index == nil || r.index.Len() == 0 {
		return nil, ErrNoCatalog
	}

	target := r.fillDefaults(features)
	return views(r.index.Nearest(target, limit, nil)), nil
}

// ByTextEmotion recommends tracks for a text-derived emotion result.
func (r *Recommender) ByTextEmotion(result *emotion.Result, limit int) ([]Recommendation, error) {
	return r.ByFeatures(featureMap(result.Target), limit)
}

// ByFaceEmotion recommends tracks for a face-classifier emotion result.
// The adapter must already have attached target features via the fixed
// emotion table.
func (r *Recommender) ByFaceEmotion(result *emotion.Result, limit int) ([]Recommendation, error) {
	return r.ByFeatures(featureMap(result.Target), limit)
}

// SimilarTracks recommends tracks nearest to a seed track's own feature
// vector, excluding the seed itself. Unknown seed ids fail with
// catalog.ErrTrackNotFound.
func (r *Recommender) SimilarTracks(trackID string, limit int) ([]Recommendation, error) {
	if r.index == nil || r.index.Len() == 0 {
		return nil, ErrNoCatalog
	}

	seed, ok := r.catalog.Get(trackID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrTrackNotFound, trackID)
	}

	exclude := map[string]bool{trackID: true}
	return views(r.index.Nearest(seed.Features, limit, exclude)), nil
}

// fillDefaults merges a partial feature vector with the neutral emotion's
// entry.
func (r *Recommender) fillDefaults(features map[string]float64) map[string]float64 {
	target := featureMap(r.lexicon.TargetFor(emotion.Neutral))
	for name, v := range features {
		target[name] = v
	}
	return target
}

func featureMap(f emotion.Features) map[string]float64 {
	return map[string]float64{
		catalog.FeatureValence:      f.Valence,
		catalog.FeatureEnergy:       f.Energy,
		catalog.FeatureDanceability: f.Danceability,
		catalog.FeatureTempo:        f.Tempo,
	}
}

func views(matches []index.Match) []Recommendation {
	recs := make([]Recommendation, len(matches))
	for i, m := range matches {
		recs[i] = Recommendation{
			ID:              m.Track.ID,
			Name:            m.Track.Name,
			Artist:          m.Track.Artist,
			Album:           m.Track.Album,
			Popularity:      m.Track.Popularity,
			ExternalURL:     m.Track.ExternalURL,
			SimilarityScore: m.Similarity,
		}
	}
	return recs
}
