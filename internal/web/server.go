// Package web exposes the recommender over a JSON HTTP API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"moodmatch/internal/emotion"
	"moodmatch/internal/recommend"
)

// ServerConfig holds server configuration. Search and Face are optional;
// their endpoints answer 503 when unset.
type ServerConfig struct {
	Addr        string
	Detector    Detector
	Recommender *recommend.Recommender
	Search      TrackSearcher
	Face        FaceClassifier
	Lexicon     *emotion.Lexicon
	Logger      zerolog.Logger
}

// Server is the HTTP server for the recommendation API.
type Server struct {
	router chi.Router
	server *http.Server
	log    zerolog.Logger
}

// NewServer creates the API server.
func NewServer(cfg ServerConfig) *Server {
	handlers := NewHandlers(cfg.Detector, cfg.Recommender, cfg.Search, cfg.Face, cfg.Lexicon, cfg.Logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(cfg.Logger))

	router.Route("/api", func(r chi.Router) {
		r.Post("/analyze-text", handlers.AnalyzeText)
		r.Post("/analyze-image", handlers.AnalyzeImage)
		r.Get("/search-tracks", handlers.SearchTracks)
		r.Get("/similar-tracks/{id}", handlers.SimilarTracks)
		r.Get("/emotion-stats", handlers.EmotionStats)
		r.Post("/recommend-by-features", handlers.RecommendByFeatures)
		r.Get("/mood-clusters", handlers.MoodClusters)
	})

	s := &Server{
		router: router,
		log:    cfg.Logger,
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// requestLogger logs each request with its outcome.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt
// signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.log.Info().Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info().Msg("server stopped")
	return nil
}
