// Command moodmatch recommends music for an emotional signal: it analyzes
// text (or serves an HTTP API that also accepts face-classifier results)
// and ranks cached Spotify tracks by mood similarity.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"moodmatch/internal/catalog"
	"moodmatch/internal/config"
	"moodmatch/internal/emotion"
	"moodmatch/internal/faceapi"
	"moodmatch/internal/index"
	"moodmatch/internal/recommend"
	"moodmatch/internal/spotify"
	"moodmatch/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	text := flag.String("text", "", "analyze emotion from text and print recommendations")
	serve := flag.Bool("serve", false, "run the HTTP API server")
	rebuild := flag.Bool("rebuild", false, "bypass the cache and rebuild the catalog")
	stats := flag.Bool("stats", false, "print the catalog's emotion distribution")
	limit := flag.Int("limit", 10, "number of recommendations")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	client, err := spotify.NewFromCredentials(ctx, cfg.SpotifyID, cfg.SpotifySecret)
	if err != nil {
		return fmt.Errorf("creating spotify client: %w", err)
	}

	store := catalog.NewStore(cfg.CatalogPath)
	builder := catalog.NewBuilder(client, store,
		catalog.WithGenreTimeout(cfg.GenreTimeout),
		catalog.WithLogger(logger.With().Str("component", "catalog").Logger()),
	)

	cat, err := builder.Build(ctx, cfg.Genres, cfg.TracksPerGenre, !*rebuild)
	if err != nil {
		return fmt.Errorf("building catalog: %w", err)
	}

	idx, err := index.LoadOrBuild(cfg.IndexPath, cat)
	if err != nil {
		return fmt.Errorf("building feature index: %w", err)
	}

	lexicon := emotion.DefaultLexicon()
	recommender := recommend.New(cat, idx, lexicon)

	switch {
	case *text != "":
		detector := emotion.NewDetector(lexicon, emotion.NewVADERScorer())
		return analyzeText(detector, recommender, *text, *limit)
	case *stats:
		return printStats(recommender, cat.Len())
	case *serve:
		fallthrough
	default:
		var face web.FaceClassifier
		if cfg.FaceAPIURL != "" {
			face = faceapi.NewClient(cfg.FaceAPIURL)
		}
		server := web.NewServer(web.ServerConfig{
			Addr:        cfg.Addr,
			Detector:    emotion.NewDetector(lexicon, emotion.NewVADERScorer()),
			Recommender: recommender,
			Search:      client,
			Face:        face,
			Lexicon:     lexicon,
			Logger:      logger.With().Str("component", "web").Logger(),
		})
		return server.Run()
	}
}

func analyzeText(detector *emotion.Detector, recommender *recommend.Recommender, text string, limit int) error {
	result, err := detector.Detect(text)
	if err != nil {
		return err
	}

	fmt.Printf("Detected emotion: %s (confidence: %.1f%%)\n", result.Emotion, result.Confidence*100)
	fmt.Printf("Target features: valence=%.2f energy=%.2f danceability=%.2f tempo=%.0f\n\n",
		result.Target.Valence, result.Target.Energy, result.Target.Danceability, result.Target.Tempo)

	recs, err := recommender.ByTextEmotion(result, limit)
	if err != nil {
		return err
	}

	for i, rec := range recs {
		fmt.Printf("%2d. %s - %s\n", i+1, rec.Name, rec.Artist)
		if rec.Album != "" {
			fmt.Printf("    Album: %s\n", rec.Album)
		}
		fmt.Printf("    Popularity: %d  Match: %.1f%%\n", rec.Popularity, rec.SimilarityScore*100)
		if rec.ExternalURL != "" {
			fmt.Printf("    %s\n", rec.ExternalURL)
		}
	}
	return nil
}

func printStats(recommender *recommend.Recommender, total int) error {
	fmt.Printf("Catalog: %d tracks\n", total)
	distribution := recommender.EmotionDistribution()
	for _, label := range emotion.DefaultLexicon().Labels() {
		fmt.Printf("%10s: %d\n", label, distribution[label])
	}
	return nil
}
