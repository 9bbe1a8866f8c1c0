package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

// Repository is the persistence boundary for matches and the profile
// rows scoring reads from.
type Repository interface {
	CreateMatch(ctx context.Context, m *Match) error
	GetLatestMatch(ctx context.Context, userID string) (*Match, error)
	CountMatches(ctx context.Context, userID string) (int64, error)
	FindEligibleUserIDs(ctx context.Context, minPreferenceGroups int) ([]string, error)
	GetPartnerProfile(ctx context.Context, userID string) (*PartnerProfile, error)
	GetPreferenceSummary(ctx context.Context, userID string) (*UserPreferenceSummary, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMatch(ctx context.Context, m *Match) error {
	query := `
		INSERT INTO matches (id, my_id, matcher_id, score, published_at, expired_at, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.MyID, m.MatcherID, m.Score, m.PublishedAt, m.ExpiredAt, m.Type)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// GetLatestMatch returns the requester's most recent match row, or nil
// when they have none.
func (r *repository) GetLatestMatch(ctx context.Context, userID string) (*Match, error) {
	query := `
		SELECT id, my_id, matcher_id, score, published_at, expired_at, type
		FROM matches
		WHERE my_id = $1
		ORDER BY published_at DESC
		LIMIT 1`

	var m Match
	err := r.db.QueryRowxContext(ctx, query, userID).StructScan(&m)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest match: %w", err)
	}
	return &m, nil
}

func (r *repository) CountMatches(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM matches WHERE my_id = $1`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// FindEligibleUserIDs lists active users complete enough to match:
// age and gender filled, and at least minPreferenceGroups preference
// groups answered.
func (r *repository) FindEligibleUserIDs(ctx context.Context, minPreferenceGroups int) ([]string, error) {
	query := `
		SELECT p.user_id
		FROM profiles p
		JOIN profile_preferences pp ON pp.user_id = p.user_id
		WHERE p.deleted_at IS NULL
		  AND p.age IS NOT NULL
		  AND p.gender IS NOT NULL
		GROUP BY p.user_id
		HAVING COUNT(DISTINCT pp.group_name) >= $1
		ORDER BY p.user_id`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, minPreferenceGroups); err != nil {
		return nil, fmt.Errorf("failed to find eligible users: %w", err)
	}
	return ids, nil
}

func (r *repository) GetPartnerProfile(ctx context.Context, userID string) (*PartnerProfile, error) {
	query := `
		SELECT user_id, name, age, gender, COALESCE(mbti, '') AS mbti
		FROM profiles
		WHERE user_id = $1 AND deleted_at IS NULL`

	var profile PartnerProfile
	err := r.db.QueryRowxContext(ctx, query, userID).StructScan(&profile)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partner profile: %w", err)
	}
	return &profile, nil
}

// GetPreferenceSummary assembles the scoring snapshot for one user.
// Multi-select groups come back as arrays, single-select habit groups
// as nullable scalars.
func (r *repository) GetPreferenceSummary(ctx context.Context, userID string) (*UserPreferenceSummary, error) {
	query := `
		SELECT
			p.user_id,
			p.age,
			p.gender,
			COALESCE(p.mbti, '') AS mbti,
			COALESCE(ARRAY_AGG(pp.option_name) FILTER (WHERE pp.group_name = 'interests'), '{}') AS interests,
			COALESCE(ARRAY_AGG(pp.option_name) FILTER (WHERE pp.group_name = 'personalities'), '{}') AS personalities,
			COALESCE(ARRAY_AGG(pp.option_name) FILTER (WHERE pp.group_name = 'lifestyles'), '{}') AS lifestyles,
			MAX(pp.option_name) FILTER (WHERE pp.group_name = 'tattoo') AS tattoo,
			MAX(pp.option_name) FILTER (WHERE pp.group_name = 'drinking') AS drinking,
			MAX(pp.option_name) FILTER (WHERE pp.group_name = 'smoking') AS smoking
		FROM profiles p
		LEFT JOIN profile_preferences pp ON pp.user_id = p.user_id
		WHERE p.user_id = $1 AND p.deleted_at IS NULL
		GROUP BY p.user_id, p.age, p.gender, p.mbti`

	var row struct {
		UserID        string         `db:"user_id"`
		Age           int            `db:"age"`
		Gender        string         `db:"gender"`
		MBTI          string         `db:"mbti"`
		Interests     pq.StringArray `db:"interests"`
		Personalities pq.StringArray `db:"personalities"`
		Lifestyles    pq.StringArray `db:"lifestyles"`
		Tattoo        *string        `db:"tattoo"`
		Drinking      *string        `db:"drinking"`
		Smoking       *string        `db:"smoking"`
	}

	err := r.db.QueryRowxContext(ctx, query, userID).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference summary: %w", err)
	}

	return &UserPreferenceSummary{
		UserID:        row.UserID,
		Age:           row.Age,
		Gender:        row.Gender,
		MBTI:          row.MBTI,
		Interests:     row.Interests,
		Personalities: row.Personalities,
		Lifestyles:    row.Lifestyles,
		Tattoo:        row.Tattoo,
		Drinking:      row.Drinking,
		Smoking:       row.Smoking,
	}, nil
}
