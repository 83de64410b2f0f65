// Package spotify wraps the Spotify Web API as the external catalog
// collaborator.
package spotify

import (
	"context"
	"fmt"
	"strings"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"moodmatch/internal/catalog"
)

// Client wraps the Spotify API client with the operations the catalog
// builder needs. It implements catalog.API.
type Client struct {
	api *spotifyapi.Client
}

// New creates a wrapper around an already authenticated Spotify client.
func New(api *spotifyapi.Client) *Client {
	return &Client{api: api}
}

// NewFromCredentials builds a client using the client-credentials flow.
// No user login is involved; the credentials identify the application.
func NewFromCredentials(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting access token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return New(spotifyapi.New(httpClient)), nil
}

// Track fetches the metadata record for a single track.
func (c *Client) Track(ctx context.Context, id string) (*catalog.TrackInfo, error) {
	ft, err := c.api.GetTrack(ctx, spotifyapi.ID(id))
	if err != nil {
		return nil, fmt.Errorf("fetching track %s: %w", id, err)
	}
	info := convertTrack(*ft)
	return &info, nil
}

// convertTrack maps a Spotify track to the collaborator-neutral record.
func convertTrack(ft spotifyapi.FullTrack) catalog.TrackInfo {
	artist := "Unknown"
	if len(ft.Artists) > 0 {
		names := make([]string, len(ft.Artists))
		for i, a := range ft.Artists {
			names[i] = a.Name
		}
		artist = strings.Join(names, ", ")
	}

	return catalog.TrackInfo{
		ID:          ft.ID.String(),
		Name:        ft.Name,
		Artist:      artist,
		Album:       ft.Album.Name,
		ExternalURL: ft.ExternalURLs["spotify"],
		Popularity:  int(ft.Popularity),
	}
}
