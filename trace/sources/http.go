// Platform-backed implementations of the post and profile capabilities.
//
// The HTTP sources speak a small JSON API (a platform search/index sidecar);
// the fake sources synthesize a plausible duplicate campaign for development
// and testing without platform credentials.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/araddon/dateparse"
	"golang.org/x/time/rate"

	"github.com/tweettrace/tweettrace/trace"
)

// HTTP-backed PostSource and ProfileSource. Host should include URL method,
// hostname, and optional port, with no path or trailing slash. If Limiter is
// non-nil, every upstream request waits on it first (backpressure against
// upstream rate limits).
type HTTPSource struct {
	Host    string
	Client  *http.Client
	Limiter *rate.Limiter
}

var (
	_ trace.PostSource    = (*HTTPSource)(nil)
	_ trace.ProfileSource = (*HTTPSource)(nil)
)

func NewHTTPSource(host string, requestsPerSec int) *HTTPSource {
	var limiter *rate.Limiter
	if requestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSec), 1)
	}
	return &HTTPSource{
		Host:    host,
		Client:  RobustHTTPClient(),
		Limiter: limiter,
	}
}

// wire format for posts; created_at is parsed loosely since upstream indexes
// are inconsistent about timestamp formats
type postJSON struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	AuthorHandle string `json:"author_handle"`
	CreatedAt    string `json:"created_at"`
}

func (p *postJSON) toPost() *trace.Post {
	out := &trace.Post{
		ID:           p.ID,
		Text:         p.Text,
		AuthorHandle: p.AuthorHandle,
	}
	if ts, err := dateparse.ParseAny(p.CreatedAt); err == nil {
		out.CreatedAt = ts
	}
	return out
}

type profileJSON struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
	CreatedAt   string `json:"created_at"`
	Verified    bool   `json:"verified"`
}

type candidatePageJSON struct {
	Posts  []postJSON `json:"posts"`
	Cursor string     `json:"cursor"`
}

func (s *HTTPSource) getJSON(ctx context.Context, path string, out any) (int, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, "GET", s.Host+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("parsing %s response: %w", path, err)
	}
	return resp.StatusCode, nil
}

func (s *HTTPSource) ResolvePost(ctx context.Context, postURL string) (*trace.Post, error) {
	var body postJSON
	status, err := s.getJSON(ctx, "/v1/posts/resolve?url="+url.QueryEscape(postURL), &body)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return body.toPost(), nil
	case http.StatusNotFound:
		return nil, &trace.InputError{Ref: postURL}
	default:
		return nil, fmt.Errorf("post resolution failed: HTTP %d", status)
	}
}

func (s *HTTPSource) StreamCandidates(ctx context.Context, original *trace.Post) (trace.CandidateStream, error) {
	return &httpCandidateStream{src: s, postID: original.ID}, nil
}

// paginates the candidate index lazily; one page of posts is buffered at a
// time
type httpCandidateStream struct {
	src    *HTTPSource
	postID string
	buf    []postJSON
	cursor string
	done   bool
}

const candidatePageSize = 100

func (cs *httpCandidateStream) Next(ctx context.Context) (*trace.Post, error) {
	for len(cs.buf) == 0 {
		if cs.done {
			return nil, io.EOF
		}
		path := fmt.Sprintf("/v1/posts/%s/candidates?limit=%d", url.PathEscape(cs.postID), candidatePageSize)
		if cs.cursor != "" {
			path += "&cursor=" + url.QueryEscape(cs.cursor)
		}
		var page candidatePageJSON
		status, err := cs.src.getJSON(ctx, path, &page)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("candidate search failed: HTTP %d", status)
		}
		prev := cs.cursor
		cs.buf = page.Posts
		cs.cursor = page.Cursor
		if cs.cursor == "" {
			cs.done = true
		}
		// an empty page with a non-advancing cursor means upstream is stuck;
		// stop instead of polling the same page forever
		if len(cs.buf) == 0 && cs.cursor == prev {
			cs.done = true
		}
	}
	p := cs.buf[0]
	cs.buf = cs.buf[1:]
	return p.toPost(), nil
}

func (s *HTTPSource) FetchProfile(ctx context.Context, handle string) (*trace.AccountProfile, error) {
	var body profileJSON
	status, err := s.getJSON(ctx, "/v1/profiles/"+url.PathEscape(handle), &body)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		// validate at the boundary so the scoring pipeline only ever sees
		// well-shaped snapshots
		out := &trace.AccountProfile{
			Handle:      body.Handle,
			DisplayName: body.DisplayName,
			Followers:   max(body.Followers, 0),
			Following:   max(body.Following, 0),
			Verified:    body.Verified,
		}
		if out.Handle == "" {
			out.Handle = handle
		}
		if ts, err := dateparse.ParseAny(body.CreatedAt); err == nil {
			out.CreatedAt = ts
		}
		return out, nil
	case http.StatusNotFound:
		return nil, trace.ErrNotFound
	case http.StatusTooManyRequests:
		return nil, trace.ErrRateLimited
	default:
		return nil, fmt.Errorf("profile fetch failed: HTTP %d", status)
	}
}
