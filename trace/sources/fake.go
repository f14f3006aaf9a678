package sources

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/tweettrace/tweettrace/trace"
	"github.com/tweettrace/tweettrace/trace/normalize"
)

// Synthesizes a plausible amplification campaign: a pool of accounts
// reposting the original text (some with trailing link/mention noise), mixed
// with unrelated posts. Deterministic for a given seed, so demo runs and
// tests are reproducible. Implements both capabilities; profiles stay
// consistent across calls within one source.
//
// Intended for development and benchmarking, not production.
type FakeSource struct {
	Candidates     int
	DuplicateShare float64
	BotShare       float64

	faker *gofakeit.Faker

	mu       sync.Mutex
	profiles map[string]*trace.AccountProfile
}

var (
	_ trace.PostSource    = (*FakeSource)(nil)
	_ trace.ProfileSource = (*FakeSource)(nil)
)

func NewFakeSource(seed int64, candidates int) *FakeSource {
	return &FakeSource{
		Candidates:     candidates,
		DuplicateShare: 0.7,
		BotShare:       0.6,
		faker:          gofakeit.New(seed),
		profiles:       make(map[string]*trace.AccountProfile),
	}
}

func (s *FakeSource) ResolvePost(ctx context.Context, postURL string) (*trace.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	handle := s.faker.Username()
	post := &trace.Post{
		ID:           normalize.HashOfString(postURL),
		Text:         s.faker.Sentence(10),
		AuthorHandle: handle,
		CreatedAt:    time.Now().Add(-time.Duration(s.faker.Number(1, 72)) * time.Hour),
	}
	s.ensureProfile(handle, false)
	return post, nil
}

func (s *FakeSource) StreamCandidates(ctx context.Context, original *trace.Post) (trace.CandidateStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]trace.Post, 0, s.Candidates)
	for i := 0; i < s.Candidates; i++ {
		handle := fmt.Sprintf("%s%d", s.faker.Username(), i)
		text := s.faker.Sentence(12)
		botLike := false
		if s.faker.Float64() < s.DuplicateShare {
			// duplicate of the original, sometimes with the trailing noise
			// real campaigns carry
			text = original.Text
			switch s.faker.Number(0, 3) {
			case 0:
				text += " " + s.faker.URL()
			case 1:
				text = "@" + original.AuthorHandle + " " + text
			}
			botLike = s.faker.Float64() < s.BotShare
		}
		posts = append(posts, trace.Post{
			ID:           normalize.HashOfString(fmt.Sprintf("%s/%d", original.ID, i)),
			Text:         text,
			AuthorHandle: handle,
			CreatedAt:    time.Now().Add(-time.Duration(s.faker.Number(1, 48)) * time.Hour),
		})
		s.ensureProfile(handle, botLike)
	}
	return &sliceStream{posts: posts}, nil
}

func (s *FakeSource) FetchProfile(ctx context.Context, handle string) (*trace.AccountProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[handle]; ok {
		return p, nil
	}
	return s.ensureProfile(handle, false), nil
}

// caller must hold s.mu
func (s *FakeSource) ensureProfile(handle string, botLike bool) *trace.AccountProfile {
	if p, ok := s.profiles[handle]; ok {
		return p
	}
	var p *trace.AccountProfile
	if botLike {
		p = &trace.AccountProfile{
			Handle:      handle,
			DisplayName: s.faker.Name(),
			Followers:   int64(s.faker.Number(5, 400)),
			Following:   int64(s.faker.Number(3000, 6000)),
			CreatedAt:   time.Now().Add(-time.Duration(s.faker.Number(2, 45)) * 24 * time.Hour),
			Verified:    false,
		}
	} else {
		p = &trace.AccountProfile{
			Handle:      handle,
			DisplayName: s.faker.Name(),
			Followers:   int64(s.faker.Number(300, 50_000)),
			Following:   int64(s.faker.Number(100, 1500)),
			CreatedAt:   time.Now().Add(-time.Duration(s.faker.Number(700, 5000)) * 24 * time.Hour),
			Verified:    s.faker.Float64() < 0.1,
		}
	}
	s.profiles[handle] = p
	return p
}

type sliceStream struct {
	posts []trace.Post
	idx   int
}

func (ss *sliceStream) Next(ctx context.Context) (*trace.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ss.idx >= len(ss.posts) {
		return nil, io.EOF
	}
	p := ss.posts[ss.idx]
	ss.idx++
	return &p, nil
}
