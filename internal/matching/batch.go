package matching

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smartnewbieproject/solo-backend/internal/notify"
)

// CreationService is the write side: single-user match creation and
// the chunked batch run that publishes the weekly cycle. One user's
// failure never aborts the run; failures are counted, reported, and
// left behind.
type CreationService struct {
	repo          Repository
	matcher       Service
	history       *HistoryManager
	stats         *StatsManager
	calendar      *Calendar
	notifier      notify.Notifier
	limiter       *rate.Limiter
	chunkSize     int
	concurrency   int
	minPrefGroups int
	log           *zap.SugaredLogger
}

type CreationConfig struct {
	ChunkSize           int
	ChunkDelay          time.Duration
	Concurrency         int
	MinPreferenceGroups int
}

func NewCreationService(
	repo Repository,
	matcher Service,
	history *HistoryManager,
	stats *StatsManager,
	calendar *Calendar,
	notifier notify.Notifier,
	cfg CreationConfig,
	log *zap.SugaredLogger,
) *CreationService {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 50
	}
	if cfg.ChunkDelay <= 0 {
		cfg.ChunkDelay = 3 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cfg.MinPreferenceGroups <= 0 {
		cfg.MinPreferenceGroups = 3
	}
	return &CreationService{
		repo:          repo,
		matcher:       matcher,
		history:       history,
		stats:         stats,
		calendar:      calendar,
		notifier:      notifier,
		limiter:       rate.NewLimiter(rate.Every(cfg.ChunkDelay), 1),
		chunkSize:     cfg.ChunkSize,
		concurrency:   cfg.Concurrency,
		minPrefGroups: cfg.MinPreferenceGroups,
		log:           log,
	}
}

// chunkReport tallies one chunk of a batch run. successes + failures
// always equals the chunk size.
type chunkReport struct {
	successes int
	failures  []string
}

// ProcessMatchCentral runs a full batch: every eligible user gets one
// match creation attempt, processed in rate-limited chunks with
// bounded concurrency inside each chunk.
func (c *CreationService) ProcessMatchCentral(ctx context.Context) error {
	started := time.Now()

	userIDs, err := c.repo.FindEligibleUserIDs(ctx, c.minPrefGroups)
	if err != nil {
		return fmt.Errorf("failed to build batch pool: %w", err)
	}

	RecordBatchRun(len(userIDs))
	c.log.Infow("starting batch matching run", "pool_size", len(userIDs), "chunk_size", c.chunkSize)
	c.notifier.Send(ctx, fmt.Sprintf("Batch matching started: %d users in pool", len(userIDs)))

	totalSuccess, totalFailure := 0, 0
	for start := 0; start < len(userIDs); start += c.chunkSize {
		// The first Wait consumes the limiter's initial token, so
		// every later chunk boundary pays the full configured delay.
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("batch run aborted: %w", err)
		}

		end := start + c.chunkSize
		if end > len(userIDs) {
			end = len(userIDs)
		}
		chunk := userIDs[start:end]

		report := c.runChunk(ctx, chunk)
		totalSuccess += report.successes
		totalFailure += len(report.failures)

		chunkNo := start/c.chunkSize + 1
		c.log.Infow("batch chunk finished",
			"chunk", chunkNo,
			"successes", report.successes,
			"failures", len(report.failures),
		)

		// Every chunk reports its stats; failure details ride along
		// when there are any.
		message := fmt.Sprintf("Chunk %d: %d ok, %d failed", chunkNo, report.successes, len(report.failures))
		if len(report.failures) > 0 {
			message += "\n" + strings.Join(report.failures, "\n")
		}
		c.notifier.Send(ctx, message)
	}

	elapsed := time.Since(started)
	RecordBatchDuration(elapsed)
	c.log.Infow("batch matching run finished",
		"pool_size", len(userIDs),
		"successes", totalSuccess,
		"failures", totalFailure,
		"elapsed", elapsed,
	)
	c.notifier.Send(ctx, fmt.Sprintf("Batch matching finished in %s: %d ok, %d failed of %d",
		elapsed.Round(time.Second), totalSuccess, totalFailure, len(userIDs)))
	return nil
}

// runChunk processes one chunk with bounded concurrency. Every user
// settles as either a success or a recorded failure; panics from a
// single user's pipeline count as failures.
func (c *CreationService) runChunk(ctx context.Context, userIDs []string) chunkReport {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report chunkReport
	)

	sem := make(chan struct{}, c.concurrency)
	for _, userID := range userIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(userID string) {
			defer wg.Done()
			defer func() { <-sem }()

			err := c.createPartnerSettled(ctx, userID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				RecordBatchUserFailure()
				report.failures = append(report.failures, fmt.Sprintf("%s: %v", userID, err))
				return
			}
			report.successes++
		}(userID)
	}
	wg.Wait()
	return report
}

// createPartnerSettled converts a panic in the per-user pipeline into
// an ordinary error so the chunk accounting stays exact.
func (c *CreationService) createPartnerSettled(ctx context.Context, userID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorw("panic during match creation", "user_id", userID, "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.CreatePartner(ctx, userID, MatchTypeScheduled, true)
}

// CreatePartner creates one match for the user: rank candidates, draw
// one uniformly at random, persist the pairing, and record exclusion
// and counter state. Finding nobody is not an error.
func (c *CreationService) CreatePartner(ctx context.Context, userID string, matchType MatchType, isBatch bool) error {
	partners, err := c.matcher.FindMatches(ctx, userID, 0, matchType)
	if err != nil {
		return err
	}
	if len(partners) == 0 {
		c.log.Infow("no candidates for user, skipping", "user_id", userID)
		return nil
	}

	chosen := partners[rand.Intn(len(partners))]

	score, err := c.matcher.ScorePair(ctx, userID, chosen.UserID, chosen.Similarity)
	if err != nil {
		return err
	}

	matcherProfile, err := c.repo.GetPartnerProfile(ctx, chosen.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve chosen partner %s: %w", chosen.UserID, err)
	}

	publishedAt := c.calendar.Now()
	match := &Match{
		ID:          uuid.NewString(),
		MyID:        userID,
		MatcherID:   chosen.UserID,
		Score:       score,
		PublishedAt: publishedAt,
		ExpiredAt:   publishedAt.Add(DefaultViewWindow),
		Type:        matchType,
	}
	if err := c.repo.CreateMatch(ctx, match); err != nil {
		return err
	}

	if err := c.history.AddMatchedUser(ctx, userID, chosen.UserID, matcherProfile.Name); err != nil {
		c.log.Warnw("failed to record exclusion entry", "user_id", userID, "matcher_id", chosen.UserID, "error", err)
	}
	if err := c.stats.IncrementMatchCount(ctx, chosen.UserID); err != nil {
		c.log.Warnw("failed to bump match counter", "matcher_id", chosen.UserID, "error", err)
	}

	RecordMatchCreated(matchType, score)
	c.log.Infow("match created",
		"match_id", match.ID,
		"user_id", userID,
		"matcher_id", chosen.UserID,
		"type", matchType,
		"score", score,
	)

	if !isBatch {
		c.notifier.Send(ctx, fmt.Sprintf("New %s match: %s -> %s (score %.2f)",
			matchType, userID, matcherProfile.Name, score))
	}
	return nil
}
