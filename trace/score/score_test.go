package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tweettrace/tweettrace/trace"
)

func TestScoreBotLikeProfile(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()

	// young, unverified, following 40x more than followed: clearly bot-like
	profile := &trace.AccountProfile{
		Handle:    "botacct1",
		Followers: 120,
		Following: 4800,
		CreatedAt: now.Add(-20 * 24 * time.Hour),
		Verified:  false,
	}
	s := ScoreWithSimilarity(profile, 1.0, now)
	assert.Greater(s, 0.7)
	assert.LessOrEqual(s, 1.0)
	assert.Equal(trace.LikelyBot, Classify(s))
}

func TestScoreHumanLikeProfile(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()

	profile := &trace.AccountProfile{
		Handle:    "realperson",
		Followers: 2300,
		Following: 850,
		CreatedAt: now.Add(-6 * 365 * 24 * time.Hour),
		Verified:  false,
	}
	s := Score(profile, now)
	assert.LessOrEqual(s, 0.4)
	assert.Equal(trace.LikelyHuman, Classify(s))
}

func TestScoreVerifiedDampensButNeverClears(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()

	// otherwise bot-like: age 10 days, following 50x followers
	unverified := &trace.AccountProfile{
		Handle:    "sus",
		Followers: 100,
		Following: 5000,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
		Verified:  false,
	}
	verified := *unverified
	verified.Verified = true

	su := ScoreWithSimilarity(unverified, 1.0, now)
	sv := ScoreWithSimilarity(&verified, 1.0, now)

	assert.Less(sv, su)
	// dampened, not zeroed: still flagged as suspicious
	assert.Greater(sv, 0.4)
}

func TestScoreMissingFieldsDegradeGracefully(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()

	s := Score(&trace.AccountProfile{Handle: "blank"}, now)
	assert.GreaterOrEqual(s, 0.0)
	assert.LessOrEqual(s, 1.0)

	// implausible creation timestamps fall back to the neutral midpoint
	bogus := &trace.AccountProfile{
		Handle:    "bogus",
		Followers: 500,
		Following: 500,
		CreatedAt: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	future := *bogus
	future.CreatedAt = now.Add(100 * 24 * time.Hour)
	assert.Equal(Score(bogus, now), Score(&future, now))
}

func TestScoreAgeHorizon(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()

	young := &trace.AccountProfile{Followers: 100, Following: 100, CreatedAt: now.Add(-24 * time.Hour)}
	old := &trace.AccountProfile{Followers: 100, Following: 100, CreatedAt: now.Add(-3 * 365 * 24 * time.Hour)}
	assert.Greater(Score(young, now), Score(old, now))
}

func TestScoreSimilaritySignal(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()

	profile := &trace.AccountProfile{
		Followers: 300,
		Following: 2000,
		CreatedAt: now.Add(-60 * 24 * time.Hour),
	}
	// near-exact duplicate text is mild evidence of automation
	assert.Greater(ScoreWithSimilarity(profile, 1.0, now), ScoreWithSimilarity(profile, 0.9, now))
	// absent signal contributes the neutral midpoint
	assert.Equal(Score(profile, now), ScoreWithSimilarity(profile, NeutralSignal, now))
}

func TestWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, WeightFollowRatio+WeightAccountAge+WeightDuplication, 1e-9)
}
