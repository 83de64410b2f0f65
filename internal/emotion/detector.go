package emotion

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
)

// ErrEmptyInput is returned when no text is supplied for analysis.
var ErrEmptyInput = errors.New("no text provided")

// AnalysisError reports a failure inside the sentiment/keyword pipeline.
type AnalysisError struct {
	Message string
}

func (e *AnalysisError) Error() string {
	return "analyzing text emotion: " + e.Message
}

// SentimentScores are VADER-style polarity scores.
type SentimentScores struct {
	Compound float64 `json:"compound"`
	Pos      float64 `json:"pos"`
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
}

// SentimentScorer produces polarity scores for a piece of text. The default
// implementation wraps the VADER analyzer; tests substitute fixed scores.
type SentimentScorer interface {
	PolarityScores(text string) SentimentScores
}

// vaderScorer adapts govader to the SentimentScorer interface.
type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func (v vaderScorer) PolarityScores(text string) SentimentScores {
	s := v.analyzer.PolarityScores(text)
	return SentimentScores{
		Compound: s.Compound,
		Pos:      s.Positive,
		Neg:      s.Negative,
		Neu:      s.Neutral,
	}
}

// NewVADERScorer returns the default VADER-backed sentiment scorer.
func NewVADERScorer() SentimentScorer {
	return vaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Result is the outcome of analyzing one text input.
type Result struct {
	Emotion       string          `json:"emotion"`
	Confidence    float64         `json:"confidence"`
	Sentiment     SentimentScores `json:"sentiment_scores"`
	KeywordScores map[string]int  `json:"keyword_scores"`
	Polarity      float64         `json:"polarity"`
	Subjectivity  float64         `json:"subjectivity"`
	Target        Features        `json:"target_features"`
}

// FromLabel builds a Result for an externally classified emotion, such as
// the face-classifier collaborator. Unknown labels map to neutral features.
func FromLabel(lexicon *Lexicon, label string, confidence float64) *Result {
	label = strings.ToLower(label)
	if _, ok := lexicon.Targets[label]; !ok {
		label = Neutral
	}
	return &Result{
		Emotion:    label,
		Confidence: round3(confidence),
		Target:     lexicon.TargetFor(label),
	}
}

// cleanPattern strips everything except word characters, whitespace and
// basic punctuation.
var cleanPattern = regexp.MustCompile(`[^\w\s.,!?]`)

// Detector combines keyword scoring with sentiment scoring to pick an
// emotion label.
type Detector struct {
	lexicon   *Lexicon
	sentiment SentimentScorer
	polarity  *PolarityScorer
}

// NewDetector creates a detector over the given lexicon and sentiment
// scorer.
func NewDetector(lexicon *Lexicon, sentiment SentimentScorer) *Detector {
	return &Detector{
		lexicon:   lexicon,
		sentiment: sentiment,
		polarity:  NewPolarityScorer(),
	}
}

// Detect analyzes text and returns an emotion result. Empty or
// whitespace-only input fails with ErrEmptyInput; any internal failure is
// surfaced as an *AnalysisError, never a panic.
func (d *Detector) Detect(text string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &AnalysisError{Message: fmt.Sprint(r)}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	cleaned := preprocess(text)

	keywordScores := d.keywordScores(cleaned)
	scores := d.sentiment.PolarityScores(cleaned)
	polarity, subjectivity := d.polarity.Score(cleaned)

	label := d.decide(keywordScores, scores)

	return &Result{
		Emotion:       label,
		Confidence:    confidence(scores, keywordScores),
		Sentiment:     scores,
		KeywordScores: keywordScores,
		Polarity:      polarity,
		Subjectivity:  subjectivity,
		Target:        d.lexicon.TargetFor(label),
	}, nil
}

// preprocess lowercases the text and strips special characters, keeping
// word characters, whitespace and basic punctuation.
func preprocess(text string) string {
	text = strings.ToLower(text)
	text = cleanPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// keywordScores counts keyword occurrences per emotion. Each keyword
// contributes its non-overlapping occurrence count.
func (d *Detector) keywordScores(text string) map[string]int {
	scores := make(map[string]int, len(d.lexicon.Order))
	for _, label := range d.lexicon.Order {
		total := 0
		for _, keyword := range d.lexicon.Keywords[label] {
			total += strings.Count(text, keyword)
		}
		scores[label] = total
	}
	return scores
}

// decide picks the emotion label. Keywords win outright when any matched;
// otherwise the label is a function of the sentiment scores.
func (d *Detector) decide(keywordScores map[string]int, s SentimentScores) string {
	best, bestScore := "", 0
	for _, label := range d.lexicon.Order {
		if keywordScores[label] > bestScore {
			best, bestScore = label, keywordScores[label]
		}
	}
	if bestScore > 0 {
		return best
	}

	switch c := s.Compound; {
	case c >= 0.5:
		return Happy
	case c <= -0.5:
		// The nested compound threshold is intentional: only strongly
		// negative text with a dominant neg component reads as anger.
		if s.Neg > 0.5 && c <= -0.7 {
			return Angry
		}
		return Sad
	case c > 0.1:
		if s.Pos > s.Neu {
			return Happy
		}
		return Neutral
	case c < -0.1:
		return Sad
	default:
		return Neutral
	}
}

// confidence derives a [0,1] confidence from the compound magnitude plus a
// keyword boost capped at 0.3.
func confidence(s SentimentScores, keywordScores map[string]int) float64 {
	maxKeyword := 0
	for _, score := range keywordScores {
		if score > maxKeyword {
			maxKeyword = score
		}
	}
	boost := math.Min(float64(maxKeyword)*0.1, 0.3)
	return round3(math.Min(math.Abs(s.Compound)+boost, 1.0))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
