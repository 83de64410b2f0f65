package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"moodmatch/internal/catalog"
	"moodmatch/internal/emotion"
	"moodmatch/internal/faceapi"
	"moodmatch/internal/recommend"
)

// Request body limits.
const (
	maxTextBody  = 64 << 10 // 64KB
	maxImageBody = 16 << 20 // 16MB
)

// defaultLimit is the recommendation count when the caller supplies none.
const defaultLimit = 15

// Detector analyzes text into an emotion result.
type Detector interface {
	Detect(text string) (*emotion.Result, error)
}

// TrackSearcher answers live track searches against the external catalog.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]catalog.TrackInfo, error)
}

// FaceClassifier classifies an image into an emotion label.
type FaceClassifier interface {
	Classify(ctx context.Context, image []byte) (*faceapi.Classification, error)
}

// Handlers contains the HTTP handlers for the recommendation API.
type Handlers struct {
	detector Detector
	rec      *recommend.Recommender
	search   TrackSearcher
	face     FaceClassifier
	lexicon  *emotion.Lexicon
	log      zerolog.Logger
}

// NewHandlers creates a Handlers instance.
func NewHandlers(detector Detector, rec *recommend.Recommender, search TrackSearcher, face FaceClassifier, lexicon *emotion.Lexicon, log zerolog.Logger) *Handlers {
	return &Handlers{
		detector: detector,
		rec:      rec,
		search:   search,
		face:     face,
		lexicon:  lexicon,
		log:      log,
	}
}

type analyzeTextRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit"`
}

type analysisResponse struct {
	EmotionAnalysis *emotion.Result            `json:"emotion_analysis"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// AnalyzeText handles POST /api/analyze-text.
func (h *Handlers) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTextBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.detector.Detect(req.Text)
	if err != nil {
		var analysisErr *emotion.AnalysisError
		switch {
		case errors.Is(err, emotion.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "no text provided")
		case errors.As(err, &analysisErr):
			writeError(w, http.StatusBadRequest, analysisErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	recs, err := h.rec.ByTextEmotion(result, limitOrDefault(req.Limit))
	if err != nil {
		h.respondRecommendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{EmotionAnalysis: result, Recommendations: recs})
}

type analyzeImageRequest struct {
	ImageData string `json:"image_data"`
	Limit     int    `json:"limit"`
}

// AnalyzeImage handles POST /api/analyze-image. The image goes to the
// external face classifier; only the returned label is used here, mapped
// through the fixed emotion table.
func (h *Handlers) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	if h.face == nil {
		writeError(w, http.StatusServiceUnavailable, "face classifier not configured")
		return
	}

	image, limit, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	classification, err := h.face.Classify(r.Context(), image)
	if err != nil {
		if errors.Is(err, faceapi.ErrServiceUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "face classifier unavailable")
			return
		}
		writeError(w, http.StatusBadGateway, "face classification failed")
		return
	}

	result := emotion.FromLabel(h.lexicon, classification.Emotion, classification.Confidence)

	recs, err := h.rec.ByFaceEmotion(result, limitOrDefault(limit))
	if err != nil {
		h.respondRecommendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{EmotionAnalysis: result, Recommendations: recs})
}

// readImage extracts image bytes from a multipart upload or a base64 JSON
// body.
func readImage(r *http.Request) ([]byte, int, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var req analyzeImageRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxImageBody)).Decode(&req); err != nil {
			return nil, 0, errors.New("invalid request body")
		}
		if req.ImageData == "" {
			return nil, 0, errors.New("no image data provided")
		}
		image, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			return nil, 0, errors.New("invalid base64 image data")
		}
		return image, req.Limit, nil
	}

	if err := r.ParseMultipartForm(maxImageBody); err != nil {
		return nil, 0, errors.New("no image data provided")
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, 0, errors.New("no image file selected")
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBody))
	if err != nil {
		return nil, 0, errors.New("reading image upload failed")
	}

	limit, _ := strconv.Atoi(r.FormValue("limit"))
	return image, limit, nil
}

type trackView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	ExternalURL string `json:"external_url"`
}

// SearchTracks handles GET /api/search-tracks. It is a live passthrough to
// the external catalog collaborator.
func (h *Handlers) SearchTracks(w http.ResponseWriter, r *http.Request) {
	if h.search == nil {
		writeError(w, http.StatusServiceUnavailable, "track search not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "no search query provided")
		return
	}
	limit := queryLimit(r, 10)

	infos, err := h.search.SearchTracks(r.Context(), query, limit)
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("track search failed")
		writeError(w, http.StatusBadGateway, "track search failed")
		return
	}

	tracks := make([]trackView, len(infos))
	for i, info := range infos {
		tracks[i] = trackView{
			ID:          info.ID,
			Name:        info.Name,
			Artist:      info.Artist,
			Album:       info.Album,
			ExternalURL: info.ExternalURL,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

// SimilarTracks handles GET /api/similar-tracks/{id}.
func (h *Handlers) SimilarTracks(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "id")

	recs, err := h.rec.SimilarTracks(trackID, queryLimit(r, 10))
	if err != nil {
		if errors.Is(err, catalog.ErrTrackNotFound) {
			writeError(w, http.StatusNotFound, "track not found in catalog")
			return
		}
		h.respondRecommendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tracks": recs})
}

// EmotionStats handles GET /api/emotion-stats.
func (h *Handlers) EmotionStats(w http.ResponseWriter, r *http.Request) {
	distribution := h.rec.EmotionDistribution()

	total := 0
	for _, n := range distribution {
		total += n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"distribution": distribution,
		"total":        total,
	})
}

type recommendByFeaturesRequest struct {
	Features map[string]float64 `json:"features"`
	Limit    int                `json:"limit"`
}

// RecommendByFeatures handles POST /api/recommend-by-features.
func (h *Handlers) RecommendByFeatures(w http.ResponseWriter, r *http.Request) {
	var req recommendByFeaturesRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTextBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recs, err := h.rec.ByFeatures(req.Features, limitOrDefault(req.Limit))
	if err != nil {
		h.respondRecommendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

// MoodClusters handles GET /api/mood-clusters.
func (h *Handlers) MoodClusters(w http.ResponseWriter, r *http.Request) {
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))

	moods, err := h.rec.MoodClusters(k)
	if err != nil {
		h.respondRecommendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"clusters": moods})
}

// respondRecommendError maps recommender failures to structured responses.
func (h *Handlers) respondRecommendError(w http.ResponseWriter, err error) {
	if errors.Is(err, recommend.ErrNoCatalog) {
		writeError(w, http.StatusServiceUnavailable, "no track catalog available")
		return
	}
	h.log.Error().Err(err).Msg("recommendation failed")
	writeError(w, http.StatusInternalServerError, "recommendation failed")
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
