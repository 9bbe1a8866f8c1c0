package matching

import (
	"time"
)

// MatchType distinguishes how a pairing was created.
type MatchType string

const (
	MatchTypeScheduled  MatchType = "scheduled"
	MatchTypeRematching MatchType = "rematching"
	MatchTypeAdmin      MatchType = "admin"
)

// ViewState is what the requester currently sees for "my latest match".
type ViewState string

const (
	StateNotFound   ViewState = "not-found"
	StateWaiting    ViewState = "waiting"
	StateRematching ViewState = "rematching"
	StateOpen       ViewState = "open"
)

// Match is a persisted pairing. Directed: MyID is the requester who
// receives this pairing in their latest-partner view; no mirrored row
// is created for the matcher.
type Match struct {
	ID          string    `json:"id" db:"id"`
	MyID        string    `json:"my_id" db:"my_id"`
	MatcherID   string    `json:"matcher_id" db:"matcher_id"`
	Score       float64   `json:"score" db:"score"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	ExpiredAt   time.Time `json:"expired_at" db:"expired_at"`
	Type        MatchType `json:"type" db:"type"`
}

// Candidate is one vector-similarity hit for a requester.
type Candidate struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// WeightedPartner is a Candidate after diversity re-ranking.
type WeightedPartner struct {
	Candidate
	MatchCount     int64   `json:"match_count"`
	DiversityScore float64 `json:"diversity_score"`
	FinalWeight    float64 `json:"final_weight"`
}

// PartnerProfile is the resolved partner card shown to the requester.
type PartnerProfile struct {
	UserID string `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`
	Age    int    `json:"age" db:"age"`
	Gender string `json:"gender" db:"gender"`
	MBTI   string `json:"mbti,omitempty" db:"mbti"`
}

// UserPreferenceSummary is the per-user snapshot used only for
// scoring. Derived on demand from profile/preference rows, never
// persisted. Nil habit codes mean "not answered" and score neutral.
type UserPreferenceSummary struct {
	UserID        string
	Age           int
	Gender        string
	MBTI          string
	Interests     []string
	Personalities []string
	Lifestyles    []string
	Tattoo        *string
	Drinking      *string
	Smoking       *string
}

// MatchDetails is the state-machine result for GetLatestPartner.
type MatchDetails struct {
	State     ViewState       `json:"state"`
	ID        string          `json:"id,omitempty"`
	EndOfView *time.Time      `json:"end_of_view,omitempty"`
	Partner   *PartnerProfile `json:"partner,omitempty"`
	Type      MatchType       `json:"type,omitempty"`
}
