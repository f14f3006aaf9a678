package engine

import (
	"math"

	"github.com/tweettrace/tweettrace/trace"
)

// Campaign severity boundaries, over the aggregate bot percentage. Boundary
// values resolve to the lower band, mirroring the per-account classifier
// convention.
const (
	HighSeverityPercentage   = 60
	MediumSeverityPercentage = 30
)

func SeverityForBotPercentage(pct int) trace.Severity {
	switch {
	case pct > HighSeverityPercentage:
		return trace.SeverityHigh
	case pct > MediumSeverityPercentage:
		return trace.SeverityMedium
	default:
		return trace.SeverityLow
	}
}

// Reduces the scored population to the campaign report. Pure and O(n); counts
// and percentage are independent of input order, while Accounts keeps the
// order duplicates were discovered in.
//
// All three classification keys are always present in Counts. BotPercentage
// is zero by convention when no duplicates were found (an explicit choice:
// leaving it undefined would break the severity derivation).
func aggregate(original trace.Post, scored []trace.ScoredAccount) *trace.CampaignReport {
	counts := map[trace.Classification]int{
		trace.LikelyBot:         0,
		trace.PossiblyAutomated: 0,
		trace.LikelyHuman:       0,
	}
	for _, sa := range scored {
		counts[sa.Classification]++
	}

	botPct := 0
	if len(scored) > 0 {
		botPct = int(math.Round(100 * float64(counts[trace.LikelyBot]) / float64(len(scored))))
	}

	return &trace.CampaignReport{
		OriginalPost:    original,
		TotalDuplicates: len(scored),
		Counts:          counts,
		Accounts:        scored,
		BotPercentage:   botPct,
		Severity:        SeverityForBotPercentage(botPct),
	}
}
