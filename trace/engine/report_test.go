package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tweettrace/tweettrace/trace"
)

func TestSeverityBands(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		pct int
		out trace.Severity
	}{
		{pct: 0, out: trace.SeverityLow},
		{pct: 30, out: trace.SeverityLow}, // boundary resolves to lower band
		{pct: 31, out: trace.SeverityMedium},
		{pct: 60, out: trace.SeverityMedium}, // boundary resolves to lower band
		{pct: 61, out: trace.SeverityHigh},
		{pct: 100, out: trace.SeverityHigh},
	}
	for _, fix := range fixtures {
		assert.Equal(fix.out, SeverityForBotPercentage(fix.pct), "pct %d", fix.pct)
	}
}

func TestAggregateEmpty(t *testing.T) {
	assert := assert.New(t)

	report := aggregate(trace.Post{ID: "p0"}, nil)
	assert.Equal(0, report.TotalDuplicates)
	assert.Equal(0, report.BotPercentage)
	assert.Equal(trace.SeverityLow, report.Severity)
	// all three keys present even when empty
	assert.Len(report.Counts, 3)
}

func scoredWith(cls trace.Classification, handle string) trace.ScoredAccount {
	return trace.ScoredAccount{
		Profile:        trace.AccountProfile{Handle: handle},
		Classification: cls,
	}
}

func TestAggregateCountsAndPercentage(t *testing.T) {
	assert := assert.New(t)

	scored := []trace.ScoredAccount{
		scoredWith(trace.LikelyBot, "a"),
		scoredWith(trace.LikelyBot, "b"),
		scoredWith(trace.PossiblyAutomated, "c"),
		scoredWith(trace.LikelyHuman, "d"),
		scoredWith(trace.LikelyHuman, "e"),
		scoredWith(trace.LikelyHuman, "f"),
	}
	report := aggregate(trace.Post{ID: "p0"}, scored)

	assert.Equal(6, report.TotalDuplicates)
	assert.Equal(2, report.Counts[trace.LikelyBot])
	assert.Equal(1, report.Counts[trace.PossiblyAutomated])
	assert.Equal(3, report.Counts[trace.LikelyHuman])
	assert.Equal(33, report.BotPercentage) // round(100*2/6)
	assert.Equal(trace.SeverityMedium, report.Severity)
	assert.Equal("a", report.Accounts[0].Profile.Handle)
}

func TestAggregateOrderIndependent(t *testing.T) {
	assert := assert.New(t)

	scored := []trace.ScoredAccount{
		scoredWith(trace.LikelyBot, "a"),
		scoredWith(trace.PossiblyAutomated, "b"),
		scoredWith(trace.LikelyHuman, "c"),
		scoredWith(trace.LikelyBot, "d"),
	}
	base := aggregate(trace.Post{ID: "p0"}, scored)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]trace.ScoredAccount, len(scored))
		copy(shuffled, scored)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		report := aggregate(trace.Post{ID: "p0"}, shuffled)
		assert.Equal(base.Counts, report.Counts)
		assert.Equal(base.BotPercentage, report.BotPercentage)
		assert.Equal(base.Severity, report.Severity)
		assert.Equal(base.TotalDuplicates, report.TotalDuplicates)
	}
}
