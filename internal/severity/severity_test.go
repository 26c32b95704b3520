package severity_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/warden/internal/moderation"
	"github.com/JaimeStill/warden/internal/severity"
)

func ptr(n int) *int { return &n }

func newClassifier() *severity.Classifier {
	d := moderation.DefaultDictionaries()
	return severity.NewClassifier(moderation.NewNormalizer(d.Substitutions), d.Emergency)
}

func TestClassify(t *testing.T) {
	c := newClassifier()

	tests := []struct {
		name string
		sig  severity.Signals
		want severity.Level
	}{
		{
			name: "emergency keyword overrides good ratings",
			sig:  severity.Signals{Text: "There is a b0mb in the cafeteria", ExperienceRating: ptr(5), SafetyRating: ptr(5)},
			want: severity.Critical,
		},
		{
			name: "emergency keyword in mixed case",
			sig:  severity.Signals{Text: "Water LEAK in block C"},
			want: severity.Critical,
		},
		{
			name: "low safety rating",
			sig:  severity.Signals{Text: "lecturers are fine", SafetyRating: ptr(1), ExperienceRating: ptr(4)},
			want: severity.Critical,
		},
		{
			name: "safety rating of two",
			sig:  severity.Signals{SafetyRating: ptr(2)},
			want: severity.Critical,
		},
		{
			name: "safety rating of three does not escalate",
			sig:  severity.Signals{SafetyRating: ptr(3), ExperienceRating: ptr(4)},
			want: severity.Low,
		},
		{
			name: "low satisfaction",
			sig:  severity.Signals{Text: "Block A room 12 the showers are cold", SatisfactionRating: ptr(2)},
			want: severity.High,
		},
		{
			name: "experience takes precedence over satisfaction",
			sig:  severity.Signals{ExperienceRating: ptr(4), SatisfactionRating: ptr(1)},
			want: severity.Low,
		},
		{
			name: "middle rating",
			sig:  severity.Signals{ExperienceRating: ptr(3)},
			want: severity.Medium,
		},
		{
			name: "no ratings defaults to benign",
			sig:  severity.Signals{Text: strings.Repeat("the wifi is terrible and nobody cares ", 40)},
			want: severity.Low,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.sig); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	c := newClassifier()

	for _, text := range []string{"", "the lunch line is slow"} {
		prev := 0
		for rating := 5; rating >= 1; rating-- {
			got := c.Classify(severity.Signals{Text: text, ExperienceRating: ptr(rating)}).Rank()
			if got < prev {
				t.Errorf("text %q: rating %d ranked %d, below rating %d", text, rating, got, rating+1)
			}
			prev = got

			sat := c.Classify(severity.Signals{Text: text, SatisfactionRating: ptr(rating)}).Rank()
			if sat != got {
				t.Errorf("text %q: satisfaction %d ranked %d, experience ranked %d", text, rating, sat, got)
			}
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    severity.Level
		wantErr bool
	}{
		{"critical", severity.Critical, false},
		{" HIGH ", severity.High, false},
		{"Medium", severity.Medium, false},
		{"low", severity.Low, false},
		{"urgent", "", true},
	}

	for _, tt := range tests {
		got, err := severity.ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
