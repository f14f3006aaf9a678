// Duplicate detection over normalized post text.
//
// Similarity is symmetric, deterministic, and bounded to [0,1]: identical
// normalized text short-circuits to 1.0, everything else is Jaccard overlap
// of word-bigram shingles (token sets for very short posts).
package match

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/tweettrace/tweettrace/trace"
	"github.com/tweettrace/tweettrace/trace/normalize"
)

// default qualification threshold for near-duplicates
const DefaultThreshold = 0.9

type Matcher struct {
	Threshold float64
	Logger    *slog.Logger
}

func NewMatcher(threshold float64, logger *slog.Logger) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{Threshold: threshold, Logger: logger}
}

// Consumes the candidate stream and returns every qualifying duplicate, in
// stream order. The original post is excluded by ID, and each author
// contributes at most one match (first seen wins), since downstream scoring
// is per-account. Candidates with no usable text or no author are skipped and
// logged, not fatal; a stream failure aborts the batch.
func (m *Matcher) FindDuplicates(ctx context.Context, original *trace.Post, candidates trace.CandidateStream) ([]trace.DuplicateMatch, error) {
	origNorm := normalize.Normalize(original.Text)
	origShingles := shingles(origNorm)

	var out []trace.DuplicateMatch
	seenAuthors := make(map[string]bool)
	for {
		cand, err := candidates.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// partial results are kept: the caller decides whether a stream
			// failure is fatal or just truncates the batch
			return out, err
		}
		if cand.ID != "" && cand.ID == original.ID {
			continue
		}
		candNorm := normalize.Normalize(cand.Text)
		if candNorm == "" {
			m.Logger.Warn("skipping unusable candidate post", "id", cand.ID, "author", cand.AuthorHandle)
			continue
		}
		// an authorless candidate can never be scored (no profile to fetch)
		// and would poison the per-author dedupe
		if cand.AuthorHandle == "" {
			m.Logger.Warn("skipping candidate post with no author", "id", cand.ID)
			continue
		}
		if seenAuthors[cand.AuthorHandle] {
			continue
		}
		sim := similarity(origNorm, origShingles, candNorm)
		if sim < m.Threshold {
			continue
		}
		seenAuthors[cand.AuthorHandle] = true
		out = append(out, trace.DuplicateMatch{Post: *cand, Similarity: sim})
	}
	return out, nil
}

// Computes the similarity of two posts' normalized text. Exposed for callers
// which already hold both posts; FindDuplicates is the batch entrypoint.
func Similarity(a, b string) float64 {
	an := normalize.Normalize(a)
	return similarity(an, shingles(an), normalize.Normalize(b))
}

func similarity(aNorm string, aShingles map[string]bool, bNorm string) float64 {
	if aNorm == "" || bNorm == "" {
		return 0
	}
	if aNorm == bNorm {
		return 1.0
	}
	return jaccard(aShingles, shingles(bNorm))
}

// Word-bigram shingles of normalized text. Posts too short for a bigram fall
// back to unigram tokens, so two-word posts still compare sensibly.
func shingles(norm string) map[string]bool {
	toks := normalize.Tokenize(norm)
	out := make(map[string]bool, len(toks))
	if len(toks) < 2 {
		for _, t := range toks {
			out[t] = true
		}
		return out
	}
	for i := 0; i+1 < len(toks); i++ {
		out[toks[i]+" "+toks[i+1]] = true
	}
	return out
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for s := range a {
		if b[s] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
