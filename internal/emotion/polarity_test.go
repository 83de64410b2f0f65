package emotion

import "testing"

func TestPolarityScorer(t *testing.T) {
	scorer := NewPolarityScorer()

	tests := []struct {
		name             string
		text             string
		wantPolarity     float64
		wantSubjectivity float64
	}{
		{
			name:             "all positive",
			text:             "good great wonderful",
			wantPolarity:     1,
			wantSubjectivity: 1,
		},
		{
			name:             "all negative",
			text:             "bad awful terrible",
			wantPolarity:     -1,
			wantSubjectivity: 1,
		},
		{
			name:             "balanced",
			text:             "good bad",
			wantPolarity:     0,
			wantSubjectivity: 1,
		},
		{
			name:             "objective text",
			text:             "the train leaves at nine",
			wantPolarity:     0,
			wantSubjectivity: 0,
		},
		{
			name:             "mixed with filler",
			text:             "it was a good day overall",
			wantPolarity:     1,
			wantSubjectivity: 1.0 / 6.0,
		},
		{
			name:             "empty",
			text:             "",
			wantPolarity:     0,
			wantSubjectivity: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			polarity, subjectivity := scorer.Score(tt.text)
			if polarity != tt.wantPolarity {
				t.Errorf("polarity = %v, want %v", polarity, tt.wantPolarity)
			}
			if subjectivity != tt.wantSubjectivity {
				t.Errorf("subjectivity = %v, want %v", subjectivity, tt.wantSubjectivity)
			}
		})
	}
}
