// Bot-likelihood scoring of account profile snapshots.
//
// The score is a weighted average of independent signals, each normalized to
// [0,1] before weighting, so new signals can be added without breaking the
// [0,1] contract. Scoring is a pure function of the snapshot: no clock reads
// outside the caller-supplied analysis time, no I/O, never fails. Missing
// fields degrade to a neutral midpoint contribution.
package score

import (
	"time"

	"github.com/tweettrace/tweettrace/trace"
)

// Signal weights. These must sum to 1.0 so the combined score stays in [0,1].
const (
	WeightFollowRatio = 0.45
	WeightAccountAge  = 0.35
	WeightDuplication = 0.20

	// verification is strong counter-evidence of automation, applied as a
	// multiplicative dampener rather than a hard override: an otherwise
	// bot-like verified account stays suspicious instead of being cleared
	VerifiedDampener = 0.55

	// contribution of a signal whose inputs are unavailable
	NeutralSignal = 0.5
)

// accounts older than this contribute a near-zero age signal
const AgeHorizon = 2 * 365 * 24 * time.Hour

// no real accounts predate the platform; treat earlier timestamps as bogus
var accountEpoch = time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)

// Scores a profile snapshot without a duplication signal, using the neutral
// midpoint in its place.
func Score(profile *trace.AccountProfile, now time.Time) float64 {
	return ScoreWithSimilarity(profile, NeutralSignal, now)
}

// Scores a profile snapshot, weighting in the duplicate-match similarity:
// near-exact duplicate text is itself mild evidence of automation. This is
// the only coupling between scoring and matching; pass NeutralSignal when no
// match context exists.
func ScoreWithSimilarity(profile *trace.AccountProfile, similarity float64, now time.Time) float64 {
	s := WeightFollowRatio*followRatioSignal(profile) +
		WeightAccountAge*accountAgeSignal(profile, now) +
		WeightDuplication*clamp01(similarity)
	if profile.Verified {
		s *= VerifiedDampener
	}
	return clamp01(s)
}

// Approaches 1.0 for accounts following far more than they are followed
// (bot-like fan-out), 0.0 for the reverse. The +1 keeps the zero-zero case
// defined and saturates gradually instead of stepping.
func followRatioSignal(profile *trace.AccountProfile) float64 {
	followers := float64(max(profile.Followers, 0))
	following := float64(max(profile.Following, 0))
	if followers == 0 && following == 0 {
		return NeutralSignal
	}
	return 1.0 - followers/(followers+following+1)
}

// Linear decay from 1.0 at creation time to 0.0 at the age horizon. Unknown
// or implausible creation timestamps contribute the neutral midpoint.
func accountAgeSignal(profile *trace.AccountProfile, now time.Time) float64 {
	created := profile.CreatedAt
	if created.IsZero() || created.Before(accountEpoch) || created.After(now.Add(time.Hour)) {
		return NeutralSignal
	}
	age := now.Sub(created)
	if age >= AgeHorizon {
		return 0
	}
	return 1.0 - float64(age)/float64(AgeHorizon)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
