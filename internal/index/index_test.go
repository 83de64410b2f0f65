package index

import (
	"path/filepath"
	"testing"

	"moodmatch/internal/catalog"
)

func buildCatalog(tracks ...catalog.Track) *catalog.Catalog {
	c := catalog.New()
	for _, t := range tracks {
		c.Add(t)
	}
	return c
}

func track(id string, popularity int, valence, energy, danceability, tempo float64) catalog.Track {
	return catalog.Track{
		ID:         id,
		Name:       "Song " + id,
		Artist:     "Artist",
		Popularity: popularity,
		Features: map[string]float64{
			catalog.FeatureValence:      valence,
			catalog.FeatureEnergy:       energy,
			catalog.FeatureDanceability: danceability,
			catalog.FeatureTempo:        tempo,
		},
	}
}

func happyTarget() map[string]float64 {
	return map[string]float64{
		catalog.FeatureValence:      0.8,
		catalog.FeatureEnergy:       0.7,
		catalog.FeatureDanceability: 0.8,
		catalog.FeatureTempo:        120,
	}
}

func TestNearestRanking(t *testing.T) {
	idx := Build(buildCatalog(
		track("far", 90, 0.1, 0.2, 0.2, 80),
		track("near", 50, 0.82, 0.7, 0.79, 121),
		track("mid", 70, 0.5, 0.5, 0.5, 110),
	))

	matches := idx.Nearest(happyTarget(), 3, nil)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}

	wantOrder := []string{"near", "mid", "far"}
	for i, want := range wantOrder {
		if matches[i].Track.ID != want {
			t.Errorf("rank %d = %s, want %s", i, matches[i].Track.ID, want)
		}
	}

	for i, m := range matches {
		if m.Similarity <= 0 || m.Similarity > 1 {
			t.Errorf("similarity %v out of (0,1]", m.Similarity)
		}
		if i > 0 && m.Similarity > matches[i-1].Similarity {
			t.Errorf("similarity not non-increasing at rank %d", i)
		}
	}
}

func TestNearestTieBreakByPopularity(t *testing.T) {
	// Identical feature vectors: popularity decides.
	idx := Build(buildCatalog(
		track("low", 30, 0.5, 0.5, 0.5, 100),
		track("high", 90, 0.5, 0.5, 0.5, 100),
		track("mid", 60, 0.5, 0.5, 0.5, 100),
	))

	matches := idx.Nearest(happyTarget(), 3, nil)
	wantOrder := []string{"high", "mid", "low"}
	for i, want := range wantOrder {
		if matches[i].Track.ID != want {
			t.Errorf("rank %d = %s, want %s", i, matches[i].Track.ID, want)
		}
	}
}

func TestNearestTieBreakByInsertionOrder(t *testing.T) {
	// Identical vectors and popularity: insertion order decides.
	idx := Build(buildCatalog(
		track("first", 50, 0.5, 0.5, 0.5, 100),
		track("second", 50, 0.5, 0.5, 0.5, 100),
	))

	matches := idx.Nearest(happyTarget(), 2, nil)
	if matches[0].Track.ID != "first" || matches[1].Track.ID != "second" {
		t.Errorf("order = %s, %s; want first, second", matches[0].Track.ID, matches[1].Track.ID)
	}
}

func TestNearestExcludeAndClamp(t *testing.T) {
	idx := Build(buildCatalog(
		track("a", 50, 0.8, 0.7, 0.8, 120),
		track("b", 50, 0.5, 0.5, 0.5, 100),
		track("c", 50, 0.2, 0.3, 0.3, 80),
	))

	matches := idx.Nearest(happyTarget(), 10, map[string]bool{"a": true})
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	for _, m := range matches {
		if m.Track.ID == "a" {
			t.Error("excluded track returned")
		}
	}

	if got := idx.Nearest(happyTarget(), 0, nil); got != nil {
		t.Errorf("Nearest with k=0 = %v, want nil", got)
	}
}

func TestNearestExactMatchSimilarityOne(t *testing.T) {
	idx := Build(buildCatalog(track("exact", 50, 0.8, 0.7, 0.8, 120)))

	matches := idx.Nearest(happyTarget(), 1, nil)
	if matches[0].Similarity != 1.0 {
		t.Errorf("similarity = %v, want 1.0", matches[0].Similarity)
	}
}

func TestTempoDoesNotDominate(t *testing.T) {
	// Without rescaling, the 40 BPM gap would swamp the valence signal.
	idx := Build(buildCatalog(
		track("right-mood", 50, 0.8, 0.7, 0.8, 80),
		track("wrong-mood", 50, 0.1, 0.1, 0.1, 120),
	))

	matches := idx.Nearest(happyTarget(), 1, nil)
	if matches[0].Track.ID != "right-mood" {
		t.Errorf("nearest = %s, want right-mood", matches[0].Track.ID)
	}
}

func TestLoadOrBuildPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	c := buildCatalog(
		track("a", 50, 0.8, 0.7, 0.8, 120),
		track("b", 60, 0.2, 0.3, 0.3, 80),
	)

	built, err := LoadOrBuild(path, c)
	if err != nil {
		t.Fatalf("LoadOrBuild() error = %v", err)
	}

	loaded, err := LoadOrBuild(path, c)
	if err != nil {
		t.Fatalf("second LoadOrBuild() error = %v", err)
	}
	if loaded.fingerprint != built.fingerprint {
		t.Errorf("fingerprints differ: %s vs %s", loaded.fingerprint, built.fingerprint)
	}

	// Same query against both indexes must agree.
	a := built.Nearest(happyTarget(), 2, nil)
	b := loaded.Nearest(happyTarget(), 2, nil)
	for i := range a {
		if a[i].Track.ID != b[i].Track.ID || a[i].Similarity != b[i].Similarity {
			t.Errorf("rank %d differs after reload: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLoadOrBuildInvalidatesOnCatalogChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	old := buildCatalog(track("a", 50, 0.8, 0.7, 0.8, 120))
	if _, err := LoadOrBuild(path, old); err != nil {
		t.Fatalf("LoadOrBuild() error = %v", err)
	}

	grown := buildCatalog(
		track("a", 50, 0.8, 0.7, 0.8, 120),
		track("b", 60, 0.2, 0.3, 0.3, 80),
	)
	idx, err := LoadOrBuild(path, grown)
	if err != nil {
		t.Fatalf("LoadOrBuild() after change error = %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after rebuild", idx.Len())
	}
	if idx.fingerprint != Fingerprint(grown) {
		t.Error("rebuilt index carries stale fingerprint")
	}
}
