package trace

import (
	"errors"
	"fmt"
)

// account does not exist (or is suspended/deleted); not retryable
var ErrNotFound = errors.New("account not found")

// transient upstream pushback; retryable within the engine's budget
var ErrRateLimited = errors.New("rate limited by upstream")

// The analysis request itself was unusable: empty reference, or a URL that
// does not resolve to any post. Surfaced directly to the caller, never
// retried.
type InputError struct {
	Ref string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid post reference %q: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("invalid post reference %q", e.Ref)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// The post discovery pipeline itself failed. Distinct from per-account fetch
// failures, which only degrade the report: a SourceError fails the whole
// analysis, so callers never mistake a broken source for a clean empty
// result.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("post source failure (%s): %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
