package emotion

import (
	"errors"
	"testing"
)

// fixedScorer returns preset sentiment scores regardless of input.
type fixedScorer struct {
	scores SentimentScores
}

func (f fixedScorer) PolarityScores(string) SentimentScores {
	return f.scores
}

func newTestDetector(scores SentimentScores) *Detector {
	return NewDetector(DefaultLexicon(), fixedScorer{scores: scores})
}

func TestDetectEmptyInput(t *testing.T) {
	detector := newTestDetector(SentimentScores{})

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := detector.Detect(text)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Detect(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
}

func TestDetectKeywordDominates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single keyword with neutral surroundings",
			text: "the weather report said nothing but I feel happy about it",
			want: Happy,
		},
		{
			name: "sad keyword",
			text: "everything has been so gloomy lately",
			want: Sad,
		},
		{
			name: "keyword beats contradicting sentiment",
			text: "furious",
			want: Angry,
		},
		{
			name: "repeated keyword outweighs single other",
			text: "calm calm calm but a bit worried",
			want: Calm,
		},
		{
			name: "tie broken by lexicon order",
			// "happy" and "sad" each score 1; happy comes first.
			text: "happy and sad at once",
			want: Happy,
		},
		{
			name: "keywords matched case-insensitively",
			text: "FEELING TERRIFIED",
			want: Fear,
		},
	}

	// Neutral sentiment so only keywords can decide.
	detector := newTestDetector(SentimentScores{Neu: 1})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := detector.Detect(tt.text)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if result.Emotion != tt.want {
				t.Errorf("Detect(%q) = %s, want %s", tt.text, result.Emotion, tt.want)
			}
		})
	}
}

func TestDetectSentimentFallback(t *testing.T) {
	tests := []struct {
		name   string
		scores SentimentScores
		want   string
	}{
		{
			name:   "compound at positive threshold",
			scores: SentimentScores{Compound: 0.5},
			want:   Happy,
		},
		{
			name:   "strongly negative with dominant neg",
			scores: SentimentScores{Compound: -0.71, Neg: 0.6},
			want:   Angry,
		},
		{
			name:   "strongly negative without dominant neg",
			scores: SentimentScores{Compound: -0.5, Neg: 0.4},
			want:   Sad,
		},
		{
			name:   "negative with dominant neg but above inner threshold",
			scores: SentimentScores{Compound: -0.6, Neg: 0.6},
			want:   Sad,
		},
		{
			name:   "mildly positive with pos over neu",
			scores: SentimentScores{Compound: 0.3, Pos: 0.2, Neu: 0.1},
			want:   Happy,
		},
		{
			name:   "mildly positive with neu over pos",
			scores: SentimentScores{Compound: 0.3, Pos: 0.1, Neu: 0.2},
			want:   Neutral,
		},
		{
			name:   "mildly negative",
			scores: SentimentScores{Compound: -0.3},
			want:   Sad,
		},
		{
			name:   "flat compound",
			scores: SentimentScores{Compound: 0.0},
			want:   Neutral,
		},
		{
			name:   "weak positive inside dead zone",
			scores: SentimentScores{Compound: 0.1},
			want:   Neutral,
		},
		{
			name:   "weak negative inside dead zone",
			scores: SentimentScores{Compound: -0.1},
			want:   Neutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := newTestDetector(tt.scores)

			// Text with no emotion keywords so sentiment decides.
			result, err := detector.Detect("the train leaves at nine")
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if result.Emotion != tt.want {
				t.Errorf("emotion = %s, want %s", result.Emotion, tt.want)
			}
		})
	}
}

func TestDetectConfidence(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		scores SentimentScores
		want   float64
	}{
		{
			name:   "compound only",
			text:   "the train leaves at nine",
			scores: SentimentScores{Compound: 0.4},
			want:   0.4,
		},
		{
			name: "keyword boost capped at 0.3",
			// Five keyword hits: boost = min(5*0.1, 0.3) = 0.3.
			text:   "happy happy happy happy happy",
			scores: SentimentScores{Compound: 0.9},
			want:   1.0,
		},
		{
			name:   "single keyword adds 0.1",
			text:   "feeling gloomy",
			scores: SentimentScores{Compound: -0.2},
			want:   0.3,
		},
		{
			name:   "zero everything",
			text:   "the train leaves at nine",
			scores: SentimentScores{},
			want:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := newTestDetector(tt.scores)

			result, err := detector.Detect(tt.text)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if result.Confidence != tt.want {
				t.Errorf("confidence = %v, want %v", result.Confidence, tt.want)
			}
			if result.Confidence < 0 || result.Confidence > 1 {
				t.Errorf("confidence %v out of [0,1]", result.Confidence)
			}
		})
	}
}

func TestDetectAttachesTargetFeatures(t *testing.T) {
	detector := newTestDetector(SentimentScores{Neu: 1})

	result, err := detector.Detect("so excited today")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	want := Features{Valence: 0.8, Energy: 0.7, Danceability: 0.8, Tempo: 120}
	if result.Target != want {
		t.Errorf("target features = %+v, want %+v", result.Target, want)
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello, world!"},
		{"  spaces  ", "spaces"},
		{"str@nge #chars $here", "strnge chars here"},
		{"keep. basic, punct! ok?", "keep. basic, punct! ok?"},
	}

	for _, tt := range tests {
		if got := preprocess(tt.in); got != tt.want {
			t.Errorf("preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromLabel(t *testing.T) {
	lexicon := DefaultLexicon()

	result := FromLabel(lexicon, "Surprise", 0.875)
	if result.Emotion != Surprise {
		t.Errorf("emotion = %s, want %s", result.Emotion, Surprise)
	}
	if result.Confidence != 0.875 {
		t.Errorf("confidence = %v, want 0.875", result.Confidence)
	}
	if result.Target != lexicon.Targets[Surprise] {
		t.Errorf("target = %+v, want surprise entry", result.Target)
	}

	// Unknown labels fall back to neutral.
	unknown := FromLabel(lexicon, "confused", 0.5)
	if unknown.Emotion != Neutral {
		t.Errorf("unknown label emotion = %s, want %s", unknown.Emotion, Neutral)
	}
	if unknown.Target != lexicon.Targets[Neutral] {
		t.Errorf("unknown label target = %+v, want neutral entry", unknown.Target)
	}
}

func TestVADERScorerIntegration(t *testing.T) {
	detector := NewDetector(DefaultLexicon(), NewVADERScorer())

	result, err := detector.Detect("I am feeling very happy and excited today")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if result.Emotion != Happy {
		t.Errorf("emotion = %s, want %s", result.Emotion, Happy)
	}
	if result.KeywordScores[Happy] == 0 {
		t.Error("expected happy keyword hits")
	}
}
