package recommend

import (
	"math"

	"moodmatch/internal/catalog"
	"moodmatch/internal/emotion"
)

// tempoScale matches the index normalization so label distances are
// computed in the same space as matching.
const tempoScale = 200.0

// EmotionDistribution maps every catalog track back to its nearest emotion
// label and returns occurrence counts per label. Purely derived; no side
// effects.
func (r *Recommender) EmotionDistribution() map[string]int {
	counts := make(map[string]int, len(r.lexicon.Targets))
	for _, label := range r.lexicon.Labels() {
		counts[label] = 0
	}

	if r.catalog == nil {
		return counts
	}

	for _, t := range r.catalog.Tracks() {
		counts[r.nearestLabel(t.Features)]++
	}
	return counts
}

// nearestLabel returns the emotion whose target features are closest to the
// given vector. Ties go to the earlier label in the fixed enumeration.
func (r *Recommender) nearestLabel(features map[string]float64) string {
	best := emotion.Neutral
	bestDistance := math.Inf(1)

	for _, label := range r.lexicon.Labels() {
		d := featureDistance(features, r.lexicon.TargetFor(label))
		if d < bestDistance {
			best, bestDistance = label, d
		}
	}
	return best
}

// featureDistance is the Euclidean distance between a track's feature
// vector and an emotion target, with tempo rescaled.
func featureDistance(features map[string]float64, target emotion.Features) float64 {
	dv := features[catalog.FeatureValence] - target.Valence
	de := features[catalog.FeatureEnergy] - target.Energy
	dd := features[catalog.FeatureDanceability] - target.Danceability
	dt := (features[catalog.FeatureTempo] - target.Tempo) / tempoScale
	return math.Sqrt(dv*dv + de*de + dd*dd + dt*dt)
}
