package trace

import (
	"time"
)

// A single post on the platform, as returned by a PostSource. Immutable once
// fetched. The "original" post is the anchor of an analysis; every other post
// the source streams is a candidate duplicate.
type Post struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	AuthorHandle string    `json:"author_handle"`
	CreatedAt    time.Time `json:"created_at"`
}

// Read-only snapshot of account metadata, valid for the duration of one
// analysis run. Fields are validated at the ProfileSource boundary: counts are
// never negative, and a zero CreatedAt means "unknown".
type AccountProfile struct {
	Handle      string    `json:"handle"`
	DisplayName string    `json:"display_name,omitempty"`
	Followers   int64     `json:"followers"`
	Following   int64     `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	Verified    bool      `json:"verified"`
}

// A candidate post which qualified as a duplicate of the original. Only
// qualifying candidates are ever materialized: Similarity is always at or
// above the matcher's threshold.
type DuplicateMatch struct {
	Post       Post    `json:"post"`
	Similarity float64 `json:"similarity"`
}

type Classification string

const (
	LikelyBot         Classification = "likely-bot"
	PossiblyAutomated Classification = "possibly-automated"
	LikelyHuman       Classification = "likely-human"
)

// Per-account scoring outcome. Classification is always the deterministic
// band for BotScore; the two are set together and never recomputed.
type ScoredAccount struct {
	Profile        AccountProfile `json:"profile"`
	Similarity     float64        `json:"similarity"`
	BotScore       float64        `json:"bot_score"`
	Classification Classification `json:"classification"`
}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Suggested human-readable summary for a severity level. The report itself
// carries only the enum and raw percentage; callers are free to use their own
// wording.
func (s Severity) Narrative() string {
	switch s {
	case SeverityHigh:
		return "this post appears to be amplified by a significant bot network"
	case SeverityMedium:
		return "moderate bot activity detected in the duplicate posts"
	default:
		return "low bot activity: most duplicates appear to be from human accounts"
	}
}

// Result of one full analysis run.
//
// Invariants: TotalDuplicates == len(Accounts); the classification counts sum
// to TotalDuplicates; BotPercentage is the rounded percentage of LikelyBot
// accounts, and zero (by convention) when no duplicates were found. Accounts
// preserves the order duplicates were discovered in the candidate stream.
type CampaignReport struct {
	OriginalPost    Post                   `json:"original_post"`
	TotalDuplicates int                    `json:"total_duplicates"`
	Counts          map[Classification]int `json:"counts_by_classification"`
	Accounts        []ScoredAccount        `json:"accounts"`
	BotPercentage   int                    `json:"bot_percentage"`
	Severity        Severity               `json:"severity"`
	// set when one or more matched accounts were dropped due to fetch
	// failures; the report is then a lower bound, not a clean count
	Degraded        bool `json:"degraded,omitempty"`
	DroppedAccounts int  `json:"dropped_accounts,omitempty"`
}
