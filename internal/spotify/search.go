package spotify

import (
	"context"
	"fmt"

	spotifyapi "github.com/zmb3/spotify/v2"

	"moodmatch/internal/catalog"
)

// maxSearchPageSize is the Spotify search page limit per request.
const maxSearchPageSize = 50

// SearchTracks returns up to limit track records matching the query,
// paginating through search results as needed.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]catalog.TrackInfo, error) {
	var infos []catalog.TrackInfo

	for offset := 0; offset < limit; offset += maxSearchPageSize {
		pageSize := min(maxSearchPageSize, limit-offset)

		result, err := c.api.Search(ctx, query, spotifyapi.SearchTypeTrack,
			spotifyapi.Limit(pageSize), spotifyapi.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("searching tracks (offset %d): %w", offset, err)
		}
		if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
			break
		}

		for _, ft := range result.Tracks.Tracks {
			infos = append(infos, convertTrack(ft))
		}

		if len(result.Tracks.Tracks) < pageSize {
			break
		}
	}

	return infos, nil
}
