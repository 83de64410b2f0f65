package recommend

import (
	"fmt"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"moodmatch/internal/catalog"
)

// DefaultMoodClusters is the cluster count used when callers pass k <= 0.
const DefaultMoodClusters = 4

// MoodCluster is a group of catalog tracks with similar audio features,
// labeled with the emotion nearest its centroid.
type MoodCluster struct {
	Label    string             `json:"label"`
	Size     int                `json:"size"`
	Centroid map[string]float64 `json:"centroid"`
}

// trackObservation adapts a catalog track to the clusters.Observation
// interface.
type trackObservation struct {
	track  *catalog.Track
	coords clusters.Coordinates
}

func (o trackObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trackObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// MoodClusters partitions the catalog into k mood groups with k-means over
// the normalized matching attributes. It is an offline diagnostic, ordered
// by descending cluster size.
func (r *Recommender) MoodClusters(k int) ([]MoodCluster, error) {
	if r.catalog == nil || r.catalog.Len() == 0 {
		return nil, ErrNoCatalog
	}
	if k <= 0 {
		k = DefaultMoodClusters
	}

	tracks := r.catalog.Tracks()
	if len(tracks) < k {
		k = len(tracks)
	}

	var obs clusters.Observations
	for i := range tracks {
		t := &tracks[i]
		obs = append(obs, trackObservation{
			track: t,
			coords: clusters.Coordinates{
				t.Features[catalog.FeatureValence],
				t.Features[catalog.FeatureEnergy],
				t.Features[catalog.FeatureDanceability],
				t.Features[catalog.FeatureTempo] / tempoScale,
			},
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("clustering catalog: %w", err)
	}

	moods := make([]MoodCluster, 0, len(result))
	for _, cluster := range result {
		centroid := map[string]float64{
			catalog.FeatureValence:      cluster.Center[0],
			catalog.FeatureEnergy:       cluster.Center[1],
			catalog.FeatureDanceability: cluster.Center[2],
			catalog.FeatureTempo:        cluster.Center[3] * tempoScale,
		}
		moods = append(moods, MoodCluster{
			Label:    r.nearestLabel(centroid),
			Size:     len(cluster.Observations),
			Centroid: centroid,
		})
	}

	sort.SliceStable(moods, func(i, j int) bool {
		return moods[i].Size > moods[j].Size
	})
	return moods, nil
}
