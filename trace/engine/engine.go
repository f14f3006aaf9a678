// Orchestration of the duplicate-discovery and bot-likelihood pipeline.
//
// One Analyze call runs the whole pipeline for one post: resolve the anchor,
// stream candidates through the duplicate matcher, hydrate a profile snapshot
// for every matched account (bounded concurrent fan-out, with caching and a
// small retry budget), score and classify each account, and reduce the
// population to a campaign report. The engine holds no cross-request state
// beyond the profile cache.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/tweettrace/tweettrace/trace"
	"github.com/tweettrace/tweettrace/trace/cachestore"
	"github.com/tweettrace/tweettrace/trace/match"
	"github.com/tweettrace/tweettrace/trace/normalize"
	"github.com/tweettrace/tweettrace/trace/score"
)

type Engine struct {
	Logger   *slog.Logger
	Posts    trace.PostSource
	Profiles trace.ProfileSource
	// optional profile snapshot cache; nil disables caching
	Cache   cachestore.CacheStore
	Matcher *match.Matcher
	// max in-flight profile fetches; backpressure against upstream rate
	// limits, not a parallelism target
	FetchConcurrency int64
	// attempts per account before it is dropped from scoring
	FetchAttempts int
	// wait between attempts for the same account
	FetchRetryWait time.Duration
}

const (
	defaultFetchConcurrency = 8
	defaultFetchAttempts    = 2
	defaultFetchRetryWait   = 500 * time.Millisecond
)

// Runs one full analysis. postRef is either a platform post URL (resolved via
// the post source) or raw post text (the anchor post is synthesized, matching
// how callers hand over pasted text).
//
// Failures local to one account never fail the batch: exhausted fetch retries
// drop that account and mark the report degraded. Failure of the discovery
// pipeline itself surfaces as *trace.SourceError. Cancellation abandons
// outstanding work and returns the partial (degraded) report.
func (e *Engine) Analyze(ctx context.Context, postRef string) (report *trace.CampaignReport, err error) {
	start := time.Now()
	logger := e.logger()

	// similar to an HTTP server, we want to recover any panics from pipeline execution
	defer func() {
		if r := recover(); r != nil {
			logger.Error("analysis execution exception", "err", r, "ref", postRef)
			report = nil
			err = fmt.Errorf("analysis panic: %v", r)
		}
	}()

	report, err = e.analyze(ctx, postRef, logger)
	analysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		analysesErrored.Inc()
		return nil, err
	}
	analysesProcessed.Inc()
	return report, nil
}

func (e *Engine) analyze(ctx context.Context, postRef string, logger *slog.Logger) (*trace.CampaignReport, error) {
	postRef = strings.TrimSpace(postRef)
	if postRef == "" {
		return nil, &trace.InputError{Ref: postRef, Err: errors.New("empty reference")}
	}

	original, err := e.resolveOriginal(ctx, postRef)
	if err != nil {
		return nil, err
	}
	logger = logger.With("post", original.ID, "author", original.AuthorHandle)

	stream, err := e.Posts.StreamCandidates(ctx, original)
	if err != nil {
		return nil, &trace.SourceError{Op: "stream", Err: err}
	}

	matcher := e.Matcher
	if matcher == nil {
		matcher = match.NewMatcher(match.DefaultThreshold, logger)
	}
	matches, err := matcher.FindDuplicates(ctx, original, stream)
	truncated := false
	if err != nil {
		if !isCancellation(err) {
			return nil, &trace.SourceError{Op: "stream", Err: err}
		}
		// cancelled mid-stream: score what we found so far
		truncated = true
	}
	duplicatesMatched.Add(float64(len(matches)))
	logger.Debug("duplicate discovery finished", "matches", len(matches), "truncated", truncated)

	scored, dropped := e.scoreAccounts(ctx, matches, logger)
	report := aggregate(*original, scored)
	report.DroppedAccounts = dropped
	report.Degraded = dropped > 0 || truncated

	logger.Info("analysis complete",
		"duplicates", report.TotalDuplicates,
		"bot_percentage", report.BotPercentage,
		"severity", report.Severity,
		"dropped", report.DroppedAccounts,
	)
	return report, nil
}

func (e *Engine) resolveOriginal(ctx context.Context, postRef string) (*trace.Post, error) {
	if !looksLikeURL(postRef) {
		// raw text: synthesize the anchor post
		return &trace.Post{
			ID:        normalize.HashOfString(postRef),
			Text:      postRef,
			CreatedAt: time.Now().UTC(),
		}, nil
	}
	post, err := e.Posts.ResolvePost(ctx, postRef)
	if err != nil {
		var inputErr *trace.InputError
		if errors.As(err, &inputErr) {
			return nil, err
		}
		return nil, &trace.SourceError{Op: "resolve", Err: err}
	}
	if post == nil || strings.TrimSpace(post.Text) == "" {
		return nil, &trace.InputError{Ref: postRef, Err: errors.New("reference resolves to no usable post")}
	}
	return post, nil
}

// Hydrates, scores, and classifies the account behind every match, keeping
// discovery order. Fan-out is bounded by FetchConcurrency; accounts whose
// profile can not be fetched within the retry budget are dropped and counted.
func (e *Engine) scoreAccounts(ctx context.Context, matches []trace.DuplicateMatch, logger *slog.Logger) ([]trace.ScoredAccount, int) {
	if len(matches) == 0 {
		return nil, 0
	}
	now := time.Now()

	concurrency := e.FetchConcurrency
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}
	sem := semaphore.NewWeighted(concurrency)

	type fetchResult struct {
		profile *trace.AccountProfile
		err     error
	}
	results := make([]fetchResult, len(matches))

	for i, m := range matches {
		if err := sem.Acquire(ctx, 1); err != nil {
			// cancelled: everything not yet started is dropped
			results[i] = fetchResult{err: err}
			continue
		}
		go func(i int, handle string) {
			defer sem.Release(1)
			p, err := e.fetchProfile(ctx, handle)
			results[i] = fetchResult{profile: p, err: err}
		}(i, m.Post.AuthorHandle)
	}
	// wait for all in-flight fetches; Acquire of the full weight only
	// succeeds once every holder released
	if err := sem.Acquire(context.Background(), concurrency); err == nil {
		sem.Release(concurrency)
	}

	scored := make([]trace.ScoredAccount, 0, len(matches))
	dropped := 0
	for i, m := range matches {
		res := results[i]
		if res.err != nil {
			if errors.Is(res.err, trace.ErrNotFound) {
				// account is gone; excluded from scoring, not a degradation
				logger.Debug("account not found, excluding", "handle", m.Post.AuthorHandle)
				continue
			}
			logger.Warn("dropping account after failed profile fetch", "handle", m.Post.AuthorHandle, "err", res.err)
			accountsDropped.Inc()
			dropped++
			continue
		}
		s := score.ScoreWithSimilarity(res.profile, m.Similarity, now)
		scored = append(scored, trace.ScoredAccount{
			Profile:        *res.profile,
			Similarity:     m.Similarity,
			BotScore:       s,
			Classification: score.Classify(s),
		})
	}
	return scored, dropped
}

// Profile fetch with cache and a bounded per-account retry budget. NotFound
// and cancellation are terminal; anything else is retried up to FetchAttempts
// total attempts.
func (e *Engine) fetchProfile(ctx context.Context, handle string) (*trace.AccountProfile, error) {
	if e.Cache != nil {
		cached, err := e.Cache.Get(ctx, handle)
		if err != nil {
			e.logger().Warn("profile cache read failed", "handle", handle, "err", err)
		} else if cached != "" {
			var p trace.AccountProfile
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				profileCacheHits.Inc()
				return &p, nil
			}
		}
	}

	attempts := e.FetchAttempts
	if attempts <= 0 {
		attempts = defaultFetchAttempts
	}
	retryWait := e.FetchRetryWait
	if retryWait <= 0 {
		retryWait = defaultFetchRetryWait
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryWait):
			}
		}
		profileFetches.Inc()
		p, err := e.Profiles.FetchProfile(ctx, handle)
		if err == nil {
			e.cacheProfile(ctx, handle, p)
			return p, nil
		}
		if errors.Is(err, trace.ErrNotFound) || isCancellation(err) {
			return nil, err
		}
		profileFetchErrors.Inc()
		lastErr = err
	}
	return nil, lastErr
}

func (e *Engine) cacheProfile(ctx context.Context, handle string, p *trace.AccountProfile) {
	if e.Cache == nil {
		return
	}
	val, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := e.Cache.Set(ctx, handle, string(val)); err != nil {
		e.logger().Warn("profile cache write failed", "handle", handle, "err", err)
	}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func looksLikeURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
