// Package catalog builds and caches the track catalog used for matching.
package catalog

import (
	"context"
	"errors"
)

// Common errors.
var (
	// ErrEmptyCatalog is returned when a build yields zero usable tracks.
	ErrEmptyCatalog = errors.New("catalog build produced no usable tracks")

	// ErrTrackNotFound is returned when a track id is not in the catalog.
	ErrTrackNotFound = errors.New("track not found")
)

// Names of the audio attributes every stored track must carry.
const (
	FeatureValence      = "valence"
	FeatureEnergy       = "energy"
	FeatureDanceability = "danceability"
	FeatureTempo        = "tempo"
)

// FeatureColumns is the fixed attribute set persisted to the cache
// artifact, core matching attributes first.
var FeatureColumns = []string{
	FeatureValence,
	FeatureEnergy,
	FeatureDanceability,
	FeatureTempo,
	"acousticness",
	"instrumentalness",
	"liveness",
	"loudness",
	"speechiness",
}

// Track is one catalog entry: display metadata plus an audio-feature
// vector. Features always contains at least valence, energy and
// danceability; tracks missing those are dropped during the build.
type Track struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Artist      string             `json:"artist"`
	Album       string             `json:"album"`
	Genre       string             `json:"genre"`
	ExternalURL string             `json:"external_url"`
	Popularity  int                `json:"popularity"`
	Features    map[string]float64 `json:"features"`
}

// HasCoreFeatures reports whether the track carries the attributes required
// for matching.
func (t *Track) HasCoreFeatures() bool {
	for _, name := range []string{FeatureValence, FeatureEnergy, FeatureDanceability} {
		if _, ok := t.Features[name]; !ok {
			return false
		}
	}
	return true
}

// TrackInfo is the raw metadata record returned by the external catalog
// collaborator, before audio features are joined in.
type TrackInfo struct {
	ID          string
	Name        string
	Artist      string
	Album       string
	ExternalURL string
	Popularity  int
}

// API is the boundary to the external catalog collaborator.
type API interface {
	// SearchTracks returns up to limit raw track records for a query.
	SearchTracks(ctx context.Context, query string, limit int) ([]TrackInfo, error)

	// AudioFeatures returns feature vectors keyed by track id. Tracks
	// without available features are absent from the result.
	AudioFeatures(ctx context.Context, ids []string) (map[string]map[string]float64, error)

	// Track returns the metadata record for a single track.
	Track(ctx context.Context, id string) (*TrackInfo, error)
}

// Catalog is an ordered collection of tracks, deduplicated by id. It is
// built once and read-only afterwards, so concurrent reads are safe.
type Catalog struct {
	tracks []Track
	byID   map[string]int
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{byID: make(map[string]int)}
}

// Add appends a track, or overwrites the existing entry in place when the
// id was already present (last write wins, insertion order preserved).
func (c *Catalog) Add(t Track) {
	if i, ok := c.byID[t.ID]; ok {
		c.tracks[i] = t
		return
	}
	c.byID[t.ID] = len(c.tracks)
	c.tracks = append(c.tracks, t)
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Tracks returns the tracks in insertion order. The slice is shared;
// callers must not mutate it.
func (c *Catalog) Tracks() []Track {
	return c.tracks
}

// Get looks up a track by id.
func (c *Catalog) Get(id string) (Track, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Track{}, false
	}
	return c.tracks[i], true
}
