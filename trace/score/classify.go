package score

import (
	"github.com/tweettrace/tweettrace/trace"
)

// Classification band boundaries. These are load-bearing for the aggregate
// report: the three bands are exactly the buckets the campaign summary counts
// and judges severity over, so any re-tuning must happen here and only here.
const (
	LikelyBotThreshold         = 0.7
	PossiblyAutomatedThreshold = 0.4
)

// Maps a bot-likelihood score to its classification tier. Total and
// deterministic; boundary values resolve to the lower-severity band (exactly
// 0.7 is PossiblyAutomated, exactly 0.4 is LikelyHuman), so the three bands
// partition [0,1] with no overlap.
func Classify(s float64) trace.Classification {
	switch {
	case s > LikelyBotThreshold:
		return trace.LikelyBot
	case s > PossiblyAutomatedThreshold:
		return trace.PossiblyAutomated
	default:
		return trace.LikelyHuman
	}
}
