package trace

import (
	"context"
)

// Lazy iterator over candidate posts. Next returns io.EOF when the stream is
// exhausted; any other error means the underlying source failed and the
// stream can not continue.
type CandidateStream interface {
	Next(ctx context.Context) (*Post, error)
}

// Post discovery capability. Implementations wrap whatever platform search or
// index is available; the engine never crawls itself.
//
// StreamCandidates returns a fresh stream on every call (restartable
// per-call, bounded by the source).
type PostSource interface {
	// resolves a platform post URL to the post it references
	ResolvePost(ctx context.Context, url string) (*Post, error)
	StreamCandidates(ctx context.Context, original *Post) (CandidateStream, error)
}

// Profile fetching capability. Returns ErrNotFound when the account does not
// exist (the engine excludes it from scoring), and ErrRateLimited for
// transient upstream pushback (subject to the engine's bounded retry budget).
type ProfileSource interface {
	FetchProfile(ctx context.Context, handle string) (*AccountProfile, error)
}
