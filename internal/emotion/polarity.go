package emotion

import "strings"

// PolarityScorer is a small lexicon-based scorer producing a polarity and
// subjectivity pair. It runs alongside VADER for diagnostics only and never
// influences the label decision.
type PolarityScorer struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var positiveWords = []string{
	"good", "great", "happy", "joy", "love", "wonderful", "excellent",
	"amazing", "fantastic", "excited", "cheerful", "delighted", "glad",
	"pleased", "beautiful", "best", "fun", "nice", "awesome", "perfect",
}

var negativeWords = []string{
	"bad", "sad", "angry", "hate", "terrible", "awful", "horrible",
	"depressed", "gloomy", "furious", "annoyed", "worried", "scared",
	"afraid", "worst", "ugly", "disgusting", "miserable", "lonely", "pain",
}

// NewPolarityScorer builds the diagnostic polarity scorer.
func NewPolarityScorer() *PolarityScorer {
	p := &PolarityScorer{
		positive: make(map[string]struct{}, len(positiveWords)),
		negative: make(map[string]struct{}, len(negativeWords)),
	}
	for _, w := range positiveWords {
		p.positive[w] = struct{}{}
	}
	for _, w := range negativeWords {
		p.negative[w] = struct{}{}
	}
	return p
}

// Score returns polarity in [-1,1] and subjectivity in [0,1]. Polarity is
// the signed balance of sentiment-bearing tokens; subjectivity is the
// fraction of tokens carrying sentiment.
func (p *PolarityScorer) Score(text string) (polarity, subjectivity float64) {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	if len(tokens) == 0 {
		return 0, 0
	}

	pos, neg := 0, 0
	for _, token := range tokens {
		if _, ok := p.positive[token]; ok {
			pos++
		} else if _, ok := p.negative[token]; ok {
			neg++
		}
	}

	charged := pos + neg
	if charged == 0 {
		return 0, 0
	}
	polarity = float64(pos-neg) / float64(charged)
	subjectivity = float64(charged) / float64(len(tokens))
	return polarity, subjectivity
}
