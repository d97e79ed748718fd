package devhabit

import (
	"context"
	"fmt"
	"time"

	"github.com/devhabit/devhabit/internal/domain/search/request"
)

// Search returns one page of published blogs.
//
// With search text, blogs containing the phrase in title, summary or content
// are ranked by relevance, then recency. Blank text lists every published blog
// newest first. Zero page or pageSize selects the default (1 and 10).
func (c *Client) Search(ctx context.Context, text string, page, pageSize int) (_ SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearch, start, err) }()

	if page == 0 {
		page = request.DefaultPage
	}
	if pageSize == 0 {
		pageSize = request.DefaultPageSize
	}
	req, err := request.New(text, page, pageSize)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	p, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}
	c.obs.searched(p.TotalCount())
	return fromInternalPage(&p), nil
}

// Get returns a published blog by ID. Unknown and unpublished blogs both
// yield ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (_ Blog, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opGet, start, err) }()

	b, err := c.searchSvc.Get(ctx, id)
	if err != nil {
		return Blog{}, fmt.Errorf("get blog: %w", err)
	}
	return fromInternalBlog(&b), nil
}
