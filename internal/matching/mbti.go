package matching

import "strings"

// MBTI compatibility table. Seeded from one triangle and mirrored at
// init so lookups are symmetric by construction. Pairs that were
// never rated, unknown codes, and empty codes all score neutral.

const mbtiNeutralScore = 0.5

var mbtiTable = buildMBTITable()

// MBTIScore looks up the compatibility of two MBTI codes.
func MBTIScore(a, b string) float64 {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	if a == "" || b == "" {
		return mbtiNeutralScore
	}
	if score, ok := mbtiTable[a+"|"+b]; ok {
		return score
	}
	return mbtiNeutralScore
}

func buildMBTITable() map[string]float64 {
	seed := map[[2]string]float64{
		// NF idealists: strongest with complementary NFs and NTs.
		{"INFP", "ENFJ"}: 0.95,
		{"INFP", "ENTJ"}: 0.9,
		{"INFP", "INFJ"}: 0.8,
		{"INFP", "ENFP"}: 0.75,
		{"INFP", "INFP"}: 0.7,
		{"INFJ", "ENFP"}: 0.95,
		{"INFJ", "ENTP"}: 0.9,
		{"INFJ", "INFJ"}: 0.7,
		{"INFJ", "ENFJ"}: 0.75,
		{"ENFP", "INTJ"}: 0.9,
		{"ENFP", "ENFJ"}: 0.7,
		{"ENFP", "ENFP"}: 0.65,
		{"ENFJ", "ISFP"}: 0.85,
		{"ENFJ", "INTP"}: 0.75,
		{"ENFJ", "ENFJ"}: 0.65,

		// NT rationals.
		{"INTJ", "ENTP"}: 0.85,
		{"INTJ", "INTJ"}: 0.65,
		{"INTJ", "ENTJ"}: 0.7,
		{"INTJ", "INFJ"}: 0.75,
		{"INTP", "ENTJ"}: 0.9,
		{"INTP", "ESTJ"}: 0.8,
		{"INTP", "INTP"}: 0.6,
		{"INTP", "INTJ"}: 0.7,
		{"ENTP", "INFJ"}: 0.9,
		{"ENTP", "INTJ"}: 0.85,
		{"ENTP", "ENTP"}: 0.6,
		{"ENTJ", "INTP"}: 0.9,
		{"ENTJ", "ISTP"}: 0.75,
		{"ENTJ", "ENTJ"}: 0.6,

		// SJ guardians: pair well with SPs and each other.
		{"ISTJ", "ESFP"}: 0.85,
		{"ISTJ", "ESTP"}: 0.8,
		{"ISTJ", "ISFJ"}: 0.75,
		{"ISTJ", "ISTJ"}: 0.7,
		{"ISTJ", "ESTJ"}: 0.7,
		{"ISFJ", "ESFP"}: 0.85,
		{"ISFJ", "ESTP"}: 0.85,
		{"ISFJ", "ESFJ"}: 0.75,
		{"ISFJ", "ISFJ"}: 0.7,
		{"ESTJ", "ISFP"}: 0.85,
		{"ESTJ", "ISTP"}: 0.8,
		{"ESTJ", "ESFJ"}: 0.7,
		{"ESTJ", "ESTJ"}: 0.65,
		{"ESFJ", "ISFP"}: 0.85,
		{"ESFJ", "ISTP"}: 0.8,
		{"ESFJ", "ESFJ"}: 0.65,

		// SP artisans.
		{"ISTP", "ESFJ"}: 0.8,
		{"ISTP", "ESTJ"}: 0.8,
		{"ISTP", "ISTP"}: 0.6,
		{"ISTP", "ESTP"}: 0.7,
		{"ISFP", "ENFJ"}: 0.85,
		{"ISFP", "ESFJ"}: 0.85,
		{"ISFP", "ESTJ"}: 0.85,
		{"ISFP", "ISFP"}: 0.65,
		{"ESTP", "ISFJ"}: 0.85,
		{"ESTP", "ISTJ"}: 0.8,
		{"ESTP", "ESTP"}: 0.6,
		{"ESFP", "ISTJ"}: 0.85,
		{"ESFP", "ISFJ"}: 0.85,
		{"ESFP", "ESFP"}: 0.6,

		// Cross-temperament pairs rated below the defaults.
		{"INFP", "ESTJ"}: 0.35,
		{"INFP", "ESTP"}: 0.3,
		{"INFJ", "ESTP"}: 0.3,
		{"INFJ", "ESFP"}: 0.35,
		{"INTJ", "ESFP"}: 0.35,
		{"INTJ", "ESFJ"}: 0.3,
		{"INTP", "ESFJ"}: 0.35,
		{"ENTJ", "ISFJ"}: 0.35,
		{"ENTP", "ISFJ"}: 0.4,
		{"ENFJ", "ISTP"}: 0.4,
		{"ENFP", "ISTJ"}: 0.4,
		{"ESTJ", "INFP"}: 0.35,
	}

	table := make(map[string]float64, len(seed)*2)
	for pair, score := range seed {
		table[pair[0]+"|"+pair[1]] = score
		table[pair[1]+"|"+pair[0]] = score
	}
	return table
}
