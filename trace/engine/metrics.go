package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "tweettrace_analysis_duration_sec",
	Help: "Total duration of one campaign analysis",
})

var analysesProcessed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tweettrace_analyses_processed",
	Help: "Number of analyses completed",
})

var analysesErrored = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tweettrace_analyses_errors",
	Help: "Number of analyses which failed",
})

var duplicatesMatched = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tweettrace_duplicates_matched",
	Help: "Number of candidate posts which qualified as duplicates",
})

var profileFetches = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tweettrace_profile_fetches",
	Help: "Number of account profile fetch attempts",
})

var profileFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tweettrace_profile_fetch_errors",
	Help: "Number of failed account profile fetch attempts",
})

var profileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tweettrace_profile_cache_hits",
	Help: "Number of profile fetches served from cache",
})

var accountsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tweettrace_accounts_dropped",
	Help: "Number of matched accounts dropped after exhausting fetch retries",
})
