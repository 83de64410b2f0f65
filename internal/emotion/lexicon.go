// Package emotion turns free-form text into a discrete emotion label with a
// target audio-feature vector for music matching.
package emotion

// Emotion labels.
const (
	Happy    = "happy"
	Sad      = "sad"
	Angry    = "angry"
	Fear     = "fear"
	Surprise = "surprise"
	Disgust  = "disgust"
	Love     = "love"
	Calm     = "calm"
	Neutral  = "neutral"
)

// Features is a point in the mood space. It serves both as an emotion's
// target and as the matching subset of a track's audio attributes.
type Features struct {
	Valence      float64
	Energy       float64
	Danceability float64
	Tempo        float64
}

// Lexicon holds the fixed emotion resources: the ordered label list, the
// keyword table, and the emotion to target-feature table. The order is
// load-bearing: keyword ties are broken by the first label reaching the
// maximum score.
type Lexicon struct {
	Order    []string
	Keywords map[string][]string
	Targets  map[string]Features
}

// DefaultLexicon returns the built-in emotion resources.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Order: []string{Happy, Sad, Angry, Fear, Surprise, Disgust, Love, Calm},
		Keywords: map[string][]string{
			Happy:    {"happy", "joy", "excited", "cheerful", "delighted", "glad", "pleased", "upbeat"},
			Sad:      {"sad", "depressed", "down", "melancholy", "gloomy", "sorrowful", "blue", "dejected"},
			Angry:    {"angry", "mad", "furious", "irritated", "annoyed", "rage", "hostile", "bitter"},
			Fear:     {"afraid", "scared", "fearful", "anxious", "worried", "nervous", "terrified", "panic"},
			Surprise: {"surprised", "shocked", "amazed", "astonished", "stunned", "bewildered"},
			Disgust:  {"disgusted", "revolted", "repulsed", "sickened", "nauseated"},
			Love:     {"love", "romantic", "affection", "adore", "cherish", "devoted"},
			Calm:     {"calm", "peaceful", "relaxed", "serene", "tranquil", "zen"},
		},
		Targets: map[string]Features{
			Happy:    {Valence: 0.8, Energy: 0.7, Danceability: 0.8, Tempo: 120},
			Sad:      {Valence: 0.2, Energy: 0.3, Danceability: 0.3, Tempo: 80},
			Angry:    {Valence: 0.1, Energy: 0.9, Danceability: 0.6, Tempo: 140},
			Fear:     {Valence: 0.2, Energy: 0.4, Danceability: 0.2, Tempo: 90},
			Surprise: {Valence: 0.6, Energy: 0.6, Danceability: 0.7, Tempo: 110},
			Disgust:  {Valence: 0.3, Energy: 0.4, Danceability: 0.3, Tempo: 95},
			Love:     {Valence: 0.7, Energy: 0.5, Danceability: 0.6, Tempo: 100},
			Calm:     {Valence: 0.5, Energy: 0.3, Danceability: 0.4, Tempo: 85},
			Neutral:  {Valence: 0.5, Energy: 0.5, Danceability: 0.5, Tempo: 110},
		},
	}
}

// Labels returns every label with a target feature entry, in decision order
// with neutral last.
func (l *Lexicon) Labels() []string {
	labels := make([]string, 0, len(l.Order)+1)
	labels = append(labels, l.Order...)
	return append(labels, Neutral)
}

// TargetFor returns the target features for a label. Unknown or missing
// labels fall back to the neutral entry.
func (l *Lexicon) TargetFor(label string) Features {
	if f, ok := l.Targets[label]; ok {
		return f
	}
	return l.Targets[Neutral]
}
