package classifier

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swimto/poolsync/pkg/sessions"
)

func TestClassifySpecificTermOutranksGeneric(t *testing.T) {
	c := New()

	// "lane" must win over "adult" even though both appear.
	got := c.Classify("Adult Lane Swim", "Recreation")

	assert.Equal(t, sessions.LaneSwim, got.SwimType)
	assert.GreaterOrEqual(t, got.Confidence, 0.7)
	assert.Contains(t, got.Tags, "adults_only")
	assert.Equal(t, "adult", got.AgeGroup)
}

func TestClassifyTable(t *testing.T) {
	c := New()

	tests := []struct {
		title    string
		category string
		want     sessions.SwimType
		minConf  float64
	}{
		{"Lane Swim", "", sessions.LaneSwim, 1.0},
		{"Lap Swimming", "Fitness", sessions.LaneSwim, 1.0},
		{"Aquafit: Shallow", "", sessions.Aquafit, 0.9},
		{"Aqua Fit", "", sessions.Aquafit, 0.9},
		{"Water Aerobics", "", sessions.Aquafit, 0.9},
		{"Senior Swim", "", sessions.SeniorSwim, 0.85},
		{"Older Adult Swim Time", "", sessions.SeniorSwim, 0.85},
		{"Adult Swim", "", sessions.AdultSwim, 0.8},
		{"Leisure Swim", "", sessions.Recreational, 0.85},
		{"Family Swim", "", sessions.Recreational, 0.85},
		{"Swim", "", sessions.Recreational, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := c.Classify(tt.title, tt.category)
			assert.Equal(t, tt.want, got.SwimType)
			assert.GreaterOrEqual(t, got.Confidence, tt.minConf)
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	c := New()

	got := c.Classify("Pool Time", "General")

	assert.Equal(t, FallbackType, got.SwimType)
	assert.Equal(t, FallbackConfidence, got.Confidence)
}

func TestClassifyIsTotal(t *testing.T) {
	c := New()

	inputs := []struct{ title, category string }{
		{"", ""},
		{"   ", "\t\n"},
		{"!!!???", "###"},
		{"日本語のタイトル", "カテゴリ"},
		{"a very long unrelated description about basketball courts", ""},
	}

	for _, in := range inputs {
		got := c.Classify(in.title, in.category)
		assert.True(t, got.SwimType.Valid(), "fallback must be a taxonomy member")
		assert.GreaterOrEqual(t, got.Confidence, 0.0)
		assert.LessOrEqual(t, got.Confidence, 1.0)
	}
}

func TestTagsAreNonExclusive(t *testing.T) {
	c := New()

	got := c.Classify("Adult Deep Water Aquafit", "")

	assert.Equal(t, sessions.Aquafit, got.SwimType)
	assert.Contains(t, got.Tags, "adults_only")
	assert.Contains(t, got.Tags, "deep_water")
}

func TestCustomRulesSortedByPriority(t *testing.T) {
	low := Rule{Pattern: regexp.MustCompile(`swim`), Type: sessions.Recreational, Priority: 1, Confidence: 0.5}
	high := Rule{Pattern: regexp.MustCompile(`swim`), Type: sessions.LaneSwim, Priority: 10, Confidence: 0.9}

	// Supplied lowest-priority first; classifier must still apply high first.
	c := New(low, high)
	got := c.Classify("swim", "")

	assert.Equal(t, sessions.LaneSwim, got.SwimType)
	assert.Equal(t, 0.9, got.Confidence)
}

func TestConfidenceClamped(t *testing.T) {
	over := Rule{Pattern: regexp.MustCompile(`swim`), Type: sessions.LaneSwim, Priority: 1, Confidence: 1.7}
	c := New(over)

	got := c.Classify("swim", "")
	assert.Equal(t, 1.0, got.Confidence)
}

func TestIsSwimActivity(t *testing.T) {
	assert.True(t, IsSwimActivity("Lane Swim", ""))
	assert.True(t, IsSwimActivity("AQUAFIT", "Fitness"))
	assert.True(t, IsSwimActivity("Dance", "Drop-in Swim"))
	assert.False(t, IsSwimActivity("Pickleball", "Sports"))
	assert.False(t, IsSwimActivity("", ""))
}
