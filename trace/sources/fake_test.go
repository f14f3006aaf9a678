package sources

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSourceDeterministic(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	a := NewFakeSource(99, 20)
	b := NewFakeSource(99, 20)

	pa, err := a.ResolvePost(ctx, "https://example.com/x/status/1")
	require.NoError(t, err)
	pb, err := b.ResolvePost(ctx, "https://example.com/x/status/1")
	require.NoError(t, err)
	assert.Equal(pa.Text, pb.Text)
	assert.Equal(pa.AuthorHandle, pb.AuthorHandle)
}

func TestFakeSourceCampaignShape(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	src := NewFakeSource(7, 30)
	original, err := src.ResolvePost(ctx, "https://example.com/x/status/2")
	require.NoError(t, err)

	stream, err := src.StreamCandidates(ctx, original)
	require.NoError(t, err)

	total := 0
	duplicates := 0
	seen := map[string]bool{}
	for {
		p, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		total++
		assert.False(seen[p.AuthorHandle], "candidate authors are distinct")
		seen[p.AuthorHandle] = true
		if p.Text == original.Text || len(p.Text) > len(original.Text) {
			duplicates++
		}

		// profiles stay consistent across calls
		p1, err := src.FetchProfile(ctx, p.AuthorHandle)
		require.NoError(t, err)
		p2, err := src.FetchProfile(ctx, p.AuthorHandle)
		require.NoError(t, err)
		assert.Equal(p1, p2)
	}
	assert.Equal(30, total)
	assert.Greater(duplicates, 0)
}
