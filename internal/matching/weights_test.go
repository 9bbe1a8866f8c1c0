package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSumsToOne(t *testing.T) {
	cases := map[string]WeightConfig{
		"defaults":      DefaultWeights(),
		"custom":        {Age: 2, Interests: 1, MBTI: 1},
		"habits only":   StandaloneHabitWeights(),
		"habits on top": DefaultWeights().Merge(StandaloneHabitWeights()),
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 1.0, cfg.Normalize().Sum(), 1e-9)
		})
	}
}

func TestNormalizeAllZeroFallsBackToDefaults(t *testing.T) {
	normalized := WeightConfig{}.Normalize()
	assert.InDelta(t, 1.0, normalized.Sum(), 1e-9)
	assert.InDelta(t, DefaultWeights().Normalize().Interests, normalized.Interests, 1e-9)
}

func TestMergeOverlaysNonZeroFields(t *testing.T) {
	base := DefaultWeights()
	merged := base.Merge(WeightConfig{Age: 0.5, Smoking: 0.1})

	assert.InDelta(t, 0.5, merged.Age, 1e-9)
	assert.InDelta(t, 0.1, merged.Smoking, 1e-9)
	assert.InDelta(t, base.Interests, merged.Interests, 1e-9)
}

func TestAgeScoreBuckets(t *testing.T) {
	assert.Equal(t, 1.0, AgeScore(25, 25))
	assert.Equal(t, 0.7, AgeScore(25, 27))
	assert.Equal(t, 0.7, AgeScore(27, 25))
	assert.Equal(t, 0.4, AgeScore(25, 30))
	assert.Equal(t, 0.1, AgeScore(25, 31))
}

func TestJaccardScore(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, JaccardScore([]string{"hiking", "jazz"}, []string{"jazz", "gaming"}), 1e-9)
	assert.Equal(t, 1.0, JaccardScore([]string{"a", "b"}, []string{"b", "a"}))
	assert.Equal(t, 0.0, JaccardScore([]string{"a"}, []string{"b"}))

	// Either side empty is treated as unanswered, not as disjoint.
	assert.Equal(t, 0.5, JaccardScore(nil, []string{"a"}))
	assert.Equal(t, 0.5, JaccardScore([]string{"a"}, nil))

	// Symmetric and duplicate-tolerant.
	a := []string{"x", "y", "y"}
	b := []string{"y", "z"}
	assert.InDelta(t, JaccardScore(a, b), JaccardScore(b, a), 1e-9)
	assert.InDelta(t, 1.0/3.0, JaccardScore(a, b), 1e-9)
}

func TestHabitScore(t *testing.T) {
	yes, no := "yes", "no"
	assert.Equal(t, 1.0, HabitScore(&yes, &yes))
	assert.Equal(t, 0.3, HabitScore(&yes, &no))
	assert.Equal(t, 0.5, HabitScore(nil, &yes))
	assert.Equal(t, 0.5, HabitScore(&yes, nil))
}

func TestWeighterScore(t *testing.T) {
	weighter := NewWeighter(DefaultWeights())

	me := &UserPreferenceSummary{
		Age:       25,
		MBTI:      "INFP",
		Interests: []string{"hiking", "jazz"},
	}
	other := &UserPreferenceSummary{
		Age:       27,
		MBTI:      "ENFJ",
		Interests: []string{"jazz", "gaming"},
	}

	// Default active weights sum to 0.9 before normalization; habits
	// are unanswered on both sides and score neutral.
	expected := (0.7*0.15 + (1.0/3.0)*0.2 + 0.5*0.15 + 0.5*0.15 + 0.95*0.15 + 0.9*0.1) / 0.9

	got := weighter.Score(me, other, 0.9)
	require.InDelta(t, expected, got, 1e-9)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestWeighterScoreWithHabitFactors(t *testing.T) {
	weighter := NewWeighter(DefaultWeights().Merge(StandaloneHabitWeights()))

	social, no, yes := "social", "no", "yes"
	me := &UserPreferenceSummary{Age: 25, Drinking: &social, Smoking: &no}
	other := &UserPreferenceSummary{Age: 25, Drinking: &social, Smoking: &yes}

	// Raw weights sum to 1.65 with the habit factors merged in.
	expected := (1.0*0.15 + 0.5*0.2 + 0.5*0.15 + 0.5*0.15 + 0.5*0.15 +
		0.8*0.1 + 0.5*0.25 + 1.0*0.25 + 0.3*0.25) / 1.65

	assert.InDelta(t, expected, weighter.Score(me, other, 0.8), 1e-9)
}
