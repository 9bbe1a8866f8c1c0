package matching

// Preference scoring. Pure functions over two preference summaries;
// no I/O anywhere in this file.

// WeightConfig holds the per-factor weights used for pair scoring.
// A zero weight disables the factor. Callers must Normalize before
// scoring so the active set sums to 1.
type WeightConfig struct {
	Age           float64
	Interests     float64
	Personalities float64
	Lifestyles    float64
	MBTI          float64
	Embedding     float64
	Tattoo        float64
	Drinking      float64
	Smoking       float64
}

// StandaloneHabitWeight applies to tattoo/drinking/smoking when a
// habit factor is enabled outside the default mix.
const StandaloneHabitWeight = 0.25

// DefaultWeights is the production factor mix. Habit factors are off
// by default; enable them by merging StandaloneHabitWeights.
func DefaultWeights() WeightConfig {
	return WeightConfig{
		Age:           0.15,
		Interests:     0.2,
		Personalities: 0.15,
		Lifestyles:    0.15,
		MBTI:          0.15,
		Embedding:     0.1,
	}
}

// StandaloneHabitWeights enables the tattoo/drinking/smoking factors
// at their standalone weight.
func StandaloneHabitWeights() WeightConfig {
	return WeightConfig{
		Tattoo:   StandaloneHabitWeight,
		Drinking: StandaloneHabitWeight,
		Smoking:  StandaloneHabitWeight,
	}
}

// Merge overlays non-zero fields of the override onto the receiver,
// returning a new config. The result still needs Normalize.
func (w WeightConfig) Merge(override WeightConfig) WeightConfig {
	merged := w
	if override.Age != 0 {
		merged.Age = override.Age
	}
	if override.Interests != 0 {
		merged.Interests = override.Interests
	}
	if override.Personalities != 0 {
		merged.Personalities = override.Personalities
	}
	if override.Lifestyles != 0 {
		merged.Lifestyles = override.Lifestyles
	}
	if override.MBTI != 0 {
		merged.MBTI = override.MBTI
	}
	if override.Embedding != 0 {
		merged.Embedding = override.Embedding
	}
	if override.Tattoo != 0 {
		merged.Tattoo = override.Tattoo
	}
	if override.Drinking != 0 {
		merged.Drinking = override.Drinking
	}
	if override.Smoking != 0 {
		merged.Smoking = override.Smoking
	}
	return merged
}

// Normalize returns a new config whose active weights sum to 1.
// An all-zero config normalizes to the normalized defaults.
func (w WeightConfig) Normalize() WeightConfig {
	sum := w.Age + w.Interests + w.Personalities + w.Lifestyles +
		w.MBTI + w.Embedding + w.Tattoo + w.Drinking + w.Smoking
	if sum == 0 {
		return DefaultWeights().Normalize()
	}
	return WeightConfig{
		Age:           w.Age / sum,
		Interests:     w.Interests / sum,
		Personalities: w.Personalities / sum,
		Lifestyles:    w.Lifestyles / sum,
		MBTI:          w.MBTI / sum,
		Embedding:     w.Embedding / sum,
		Tattoo:        w.Tattoo / sum,
		Drinking:      w.Drinking / sum,
		Smoking:       w.Smoking / sum,
	}
}

// Sum reports the total of all weights. 1 after Normalize.
func (w WeightConfig) Sum() float64 {
	return w.Age + w.Interests + w.Personalities + w.Lifestyles +
		w.MBTI + w.Embedding + w.Tattoo + w.Drinking + w.Smoking
}

// Weighter scores preference-summary pairs under a fixed, normalized
// weight configuration.
type Weighter struct {
	weights WeightConfig
}

func NewWeighter(weights WeightConfig) *Weighter {
	return &Weighter{weights: weights.Normalize()}
}

// Weights returns the normalized weight set in effect.
func (pw *Weighter) Weights() WeightConfig {
	return pw.weights
}

// Score computes the weighted total for a pair. embeddingSimilarity is
// the vector-similarity score passed through as its own factor.
func (pw *Weighter) Score(me, other *UserPreferenceSummary, embeddingSimilarity float64) float64 {
	w := pw.weights
	total := w.Age*AgeScore(me.Age, other.Age) +
		w.Interests*JaccardScore(me.Interests, other.Interests) +
		w.Personalities*JaccardScore(me.Personalities, other.Personalities) +
		w.Lifestyles*JaccardScore(me.Lifestyles, other.Lifestyles) +
		w.MBTI*MBTIScore(me.MBTI, other.MBTI) +
		w.Embedding*embeddingSimilarity +
		w.Tattoo*HabitScore(me.Tattoo, other.Tattoo) +
		w.Drinking*HabitScore(me.Drinking, other.Drinking) +
		w.Smoking*HabitScore(me.Smoking, other.Smoking)
	return total
}

// AgeScore buckets the age gap.
func AgeScore(a, b int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1.0
	case diff <= 2:
		return 0.7
	case diff <= 5:
		return 0.4
	default:
		return 0.1
	}
}

// JaccardScore is |intersection| / |union| over name sets. Either set
// empty scores the neutral 0.5.
func JaccardScore(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.5
	}

	seen := make(map[string]bool, len(a))
	for _, name := range a {
		seen[name] = true
	}

	intersection := 0
	counted := make(map[string]bool, len(b))
	for _, name := range b {
		if counted[name] {
			continue
		}
		counted[name] = true
		if seen[name] {
			intersection++
		}
	}

	union := len(seen) + len(counted) - intersection
	if union == 0 {
		return 0.5
	}
	return float64(intersection) / float64(union)
}

// HabitScore compares tattoo/drinking/smoking codes. Missing answers
// on either side score neutral.
func HabitScore(a, b *string) float64 {
	if a == nil || b == nil {
		return 0.5
	}
	if *a == *b {
		return 1.0
	}
	return 0.3
}
