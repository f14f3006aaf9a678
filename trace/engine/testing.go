package engine

import (
	"log/slog"
	"time"

	"github.com/tweettrace/tweettrace/trace/cachestore"
	"github.com/tweettrace/tweettrace/trace/match"
	"github.com/tweettrace/tweettrace/trace/sources"
)

// Engine wired to deterministic fake sources and an in-process cache, for
// tests and local experiments.
func EngineTestFixture() Engine {
	fake := sources.NewFakeSource(1234, 40)
	return Engine{
		Logger:         slog.Default(),
		Posts:          fake,
		Profiles:       fake,
		Cache:          cachestore.NewMemCacheStore(100, time.Hour),
		Matcher:        match.NewMatcher(match.DefaultThreshold, slog.Default()),
		FetchRetryWait: time.Millisecond,
	}
}
