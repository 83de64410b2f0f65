// Package config loads application configuration from a .env file and the
// environment.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when the Spotify credentials are not
// set.
var ErrMissingCredentials = errors.New("missing SPOTIFY_CLIENT_ID or SPOTIFY_CLIENT_SECRET")

// Defaults.
const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultDataDir        = "data"
	DefaultTracksPerGenre = 100
	DefaultGenreTimeout   = 30 * time.Second
)

// DefaultGenres are the genres collected into the catalog when none are
// configured.
var DefaultGenres = []string{"pop", "rock", "jazz", "classical", "electronic"}

// Config holds everything the application needs to run.
type Config struct {
	SpotifyID     string
	SpotifySecret string

	Addr        string
	DataDir     string
	CatalogPath string
	IndexPath   string

	Genres         []string
	TracksPerGenre int
	GenreTimeout   time.Duration

	// FaceAPIURL is the optional face-emotion classifier service. Image
	// analysis is disabled when empty.
	FaceAPIURL string
}

// Load reads configuration from .env (when present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	dataDir := envDefault("MOODMATCH_DATA_DIR", DefaultDataDir)

	cfg := &Config{
		SpotifyID:      clientID,
		SpotifySecret:  clientSecret,
		Addr:           envDefault("MOODMATCH_ADDR", DefaultAddr),
		DataDir:        dataDir,
		CatalogPath:    filepath.Join(dataDir, "spotify_tracks.csv"),
		IndexPath:      filepath.Join(dataDir, "feature_index.json"),
		Genres:         envList("MOODMATCH_GENRES", DefaultGenres),
		TracksPerGenre: envInt("MOODMATCH_TRACKS_PER_GENRE", DefaultTracksPerGenre),
		GenreTimeout:   envDuration("MOODMATCH_GENRE_TIMEOUT", DefaultGenreTimeout),
		FaceAPIURL:     os.Getenv("FACE_API_URL"),
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
