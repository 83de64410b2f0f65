package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultGenreTimeout bounds the external-service calls made for a single
// genre. A timeout counts as that genre failing, never as a build failure.
const DefaultGenreTimeout = 30 * time.Second

// Builder constructs the track catalog from the external catalog
// collaborator, genre by genre, and persists it to the cache artifact.
type Builder struct {
	api     API
	store   *Store
	timeout time.Duration
	log     zerolog.Logger

	// mu ensures at most one rebuild runs at a time per cache artifact.
	mu sync.Mutex
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithGenreTimeout sets the per-genre timeout for external calls.
func WithGenreTimeout(d time.Duration) BuilderOption {
	return func(b *Builder) {
		b.timeout = d
	}
}

// WithLogger sets the builder's logger.
func WithLogger(log zerolog.Logger) BuilderOption {
	return func(b *Builder) {
		b.log = log
	}
}

// NewBuilder creates a catalog builder.
func NewBuilder(api API, store *Store, opts ...BuilderOption) *Builder {
	b := &Builder{
		api:     api,
		store:   store,
		timeout: DefaultGenreTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// genreFailure records a genre that was skipped during the build.
type genreFailure struct {
	genre string
	err   error
}

// Build returns the track catalog. With useCached set and a readable cache
// artifact present, the cache is loaded and no external calls are made.
// Otherwise each genre is fetched in order; a genre whose search or feature
// fetch fails is logged and skipped. The build fails with ErrEmptyCatalog
// only when no genre produced a usable track.
func (b *Builder) Build(ctx context.Context, genres []string, tracksPerGenre int, useCached bool) (*Catalog, error) {
	if useCached && b.store.Exists() {
		c, err := b.store.Load()
		if err == nil {
			b.log.Info().Int("tracks", c.Len()).Str("path", b.store.Path()).Msg("loaded catalog from cache")
			return c, nil
		}
		b.log.Warn().Err(err).Msg("cache artifact unreadable, rebuilding")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	log := b.log.With().Str("build_id", uuid.NewString()).Logger()
	log.Info().Strs("genres", genres).Int("tracks_per_genre", tracksPerGenre).Msg("building catalog")

	c := New()
	var failures []genreFailure

	for _, genre := range genres {
		added, err := b.collectGenre(ctx, c, genre, tracksPerGenre)
		if err != nil {
			log.Warn().Err(err).Str("genre", genre).Msg("skipping genre")
			failures = append(failures, genreFailure{genre: genre, err: err})
			continue
		}
		log.Info().Str("genre", genre).Int("tracks", added).Msg("collected genre")
	}

	if c.Len() == 0 {
		return nil, fmt.Errorf("%w: %d of %d genres failed", ErrEmptyCatalog, len(failures), len(genres))
	}

	if err := b.store.Save(c); err != nil {
		return nil, fmt.Errorf("persisting catalog: %w", err)
	}

	log.Info().Int("tracks", c.Len()).Int("failed_genres", len(failures)).Msg("catalog build complete")
	return c, nil
}

// collectGenre fetches one genre's tracks and joins in their audio
// features, adding complete tracks to the catalog. It returns the number of
// tracks added.
func (b *Builder) collectGenre(ctx context.Context, c *Catalog, genre string, limit int) (int, error) {
	gctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	infos, err := b.api.SearchTracks(gctx, "genre:"+genre, limit)
	if err != nil {
		return 0, fmt.Errorf("searching tracks: %w", err)
	}
	if len(infos) == 0 {
		return 0, nil
	}

	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}

	features, err := b.api.AudioFeatures(gctx, ids)
	if err != nil {
		return 0, fmt.Errorf("fetching audio features: %w", err)
	}

	added := 0
	for _, info := range infos {
		fv, ok := features[info.ID]
		if !ok {
			continue
		}
		track := Track{
			ID:          info.ID,
			Name:        info.Name,
			Artist:      info.Artist,
			Album:       info.Album,
			Genre:       genre,
			ExternalURL: info.ExternalURL,
			Popularity:  info.Popularity,
			Features:    fv,
		}
		if !track.HasCoreFeatures() {
			continue
		}
		c.Add(track)
		added++
	}
	return added, nil
}
