package github

import (
	"context"
)

// Pager walks an organization's repository list as a lazy sequence of
// pages. It is finite and not restartable: once exhausted (or failed) it
// keeps returning nil.
type Pager struct {
	fetcher   PageFetcher
	org       string
	batchSize int
	cursor    *string
	done      bool
}

// NewPager creates a pager over org using the given page size.
func NewPager(fetcher PageFetcher, org string, batchSize int) *Pager {
	return &Pager{
		fetcher:   fetcher,
		org:       org,
		batchSize: batchSize,
	}
}

// Next fetches the next page, advancing the cursor. It returns (nil, nil)
// once the sequence is exhausted. The sequence ends when the API reports
// no further pages or a page comes back short of the batch size.
func (p *Pager) Next(ctx context.Context) (*Page, error) {
	if p.done {
		return nil, nil
	}

	page, err := p.fetcher.FetchRepositoryPage(ctx, p.org, p.batchSize, p.cursor)
	if err != nil {
		p.done = true
		return nil, err
	}

	if !page.HasNextPage || len(page.Repos) < p.batchSize {
		p.done = true
	} else {
		cursor := page.EndCursor
		p.cursor = &cursor
	}
	return page, nil
}
