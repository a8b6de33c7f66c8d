package github

import (
	"context"
	"errors"
	"testing"

	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves pre-built pages and records every call it receives.
type fakeFetcher struct {
	pages   []*Page
	err     error
	errAt   int // 1-based call number that fails; 0 means never
	calls   int
	cursors []*string
}

func (f *fakeFetcher) FetchRepositoryPage(ctx context.Context, org string, limit int, cursor *string) (*Page, error) {
	f.calls++
	f.cursors = append(f.cursors, cursor)
	if f.errAt > 0 && f.calls == f.errAt {
		return nil, f.err
	}
	return f.pages[f.calls-1], nil
}

func makeRepos(names ...string) []RepoNode {
	repos := make([]RepoNode, 0, len(names))
	for _, name := range names {
		repos = append(repos, RepoNode{Name: githubv4.String(name)})
	}
	return repos
}

func TestPagerWalksAllPages(t *testing.T) {
	// 5 repositories with batch size 2: expect ceil(5/2) = 3 requests.
	fetcher := &fakeFetcher{
		pages: []*Page{
			{Repos: makeRepos("a", "b"), EndCursor: "c1", HasNextPage: true},
			{Repos: makeRepos("c", "d"), EndCursor: "c2", HasNextPage: true},
			{Repos: makeRepos("e"), EndCursor: "c3", HasNextPage: false},
		},
	}

	pager := NewPager(fetcher, "acme", 2)

	var total int
	for {
		page, err := pager.Next(context.Background())
		require.NoError(t, err)
		if page == nil {
			break
		}
		total += len(page.Repos)
	}

	assert.Equal(t, 3, fetcher.calls)
	assert.Equal(t, 5, total)

	// First call carries no cursor; later calls advance it.
	require.Len(t, fetcher.cursors, 3)
	assert.Nil(t, fetcher.cursors[0])
	require.NotNil(t, fetcher.cursors[1])
	assert.Equal(t, "c1", *fetcher.cursors[1])
	require.NotNil(t, fetcher.cursors[2])
	assert.Equal(t, "c2", *fetcher.cursors[2])
}

func TestPagerStopsOnShortPage(t *testing.T) {
	// A short page terminates the walk even if hasNextPage lies.
	fetcher := &fakeFetcher{
		pages: []*Page{
			{Repos: makeRepos("a"), EndCursor: "c1", HasNextPage: true},
		},
	}

	pager := NewPager(fetcher, "acme", 2)

	page, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, page)

	page, err = pager.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.Equal(t, 1, fetcher.calls)
}

func TestPagerSingleExactPage(t *testing.T) {
	// 2 repositories with batch size 2 and hasNextPage false: one request.
	fetcher := &fakeFetcher{
		pages: []*Page{
			{Repos: makeRepos("a", "b"), EndCursor: "c1", HasNextPage: false},
		},
	}

	pager := NewPager(fetcher, "acme", 2)

	page, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Len(t, page.Repos, 2)

	page, err = pager.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.Equal(t, 1, fetcher.calls)
}

func TestPagerSurfacesFetchError(t *testing.T) {
	fetchErr := errors.New("boom")
	fetcher := &fakeFetcher{
		pages: []*Page{
			{Repos: makeRepos("a", "b"), EndCursor: "c1", HasNextPage: true},
			nil,
		},
		err:   fetchErr,
		errAt: 2,
	}

	pager := NewPager(fetcher, "acme", 2)

	_, err := pager.Next(context.Background())
	require.NoError(t, err)

	_, err = pager.Next(context.Background())
	require.ErrorIs(t, err, fetchErr)

	// A failed pager stays exhausted.
	page, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.Equal(t, 2, fetcher.calls)
}
