package spotify

import (
	"context"
	"fmt"

	spotifyapi "github.com/zmb3/spotify/v2"
)

// maxTracksPerRequest is the Spotify audio-features batch limit.
const maxTracksPerRequest = 100

// AudioFeatures returns feature vectors keyed by track id. Requests are
// batched at 100 ids per call per Spotify API limits. Tracks without
// available audio features are absent from the result.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	apiIDs := make([]spotifyapi.ID, len(ids))
	for i, id := range ids {
		apiIDs[i] = spotifyapi.ID(id)
	}

	total := len(apiIDs)
	for i := 0; i < total; i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, total)
		batch := apiIDs[i:end]

		features, err := c.api.GetAudioFeatures(ctx, batch...)
		if err != nil {
			return nil, fmt.Errorf("fetching audio features (batch %d-%d): %w", i+1, end, err)
		}

		for _, f := range features {
			if f == nil {
				continue // track has no audio features
			}
			out[f.ID.String()] = featureVector(f)
		}
	}

	return out, nil
}

// featureVector maps a Spotify audio-features record to the catalog's
// attribute set.
func featureVector(f *spotifyapi.AudioFeatures) map[string]float64 {
	return map[string]float64{
		"valence":          float64(f.Valence),
		"energy":           float64(f.Energy),
		"danceability":     float64(f.Danceability),
		"tempo":            float64(f.Tempo),
		"acousticness":     float64(f.Acousticness),
		"instrumentalness": float64(f.Instrumentalness),
		"liveness":         float64(f.Liveness),
		"loudness":         float64(f.Loudness),
		"speechiness":      float64(f.Speechiness),
	}
}
