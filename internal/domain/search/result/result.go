package result

import "github.com/devhabit/devhabit/internal/domain/blog"

// Result is a single public search hit.
type Result struct {
	blog      blog.Blog
	relevance *float64
}

// New creates a result. relevance is nil for unranked (recency-ordered) results.
func New(b blog.Blog, relevance *float64) Result {
	return Result{blog: b, relevance: relevance}
}

// Blog returns the matched blog.
func (r *Result) Blog() blog.Blog { return r.blog }

// Relevance returns the rounded score, or nil when no search text was given.
func (r *Result) Relevance() *float64 { return r.relevance }

// Page is one window of a filtered and ordered result set.
type Page struct {
	items      []Result
	page       int
	pageSize   int
	totalCount int
}

// NewPage creates a page. totalCount counts all matches before paging.
func NewPage(items []Result, page, pageSize, totalCount int) Page {
	if items == nil {
		items = []Result{}
	}
	return Page{items: items, page: page, pageSize: pageSize, totalCount: totalCount}
}

// Items returns the results on this page.
func (p *Page) Items() []Result { return p.items }

// Page returns the 1-based page number that was requested.
func (p *Page) Page() int { return p.page }

// PageSize returns the requested page size.
func (p *Page) PageSize() int { return p.pageSize }

// TotalCount returns the number of matches across all pages.
func (p *Page) TotalCount() int { return p.totalCount }

// TotalPages returns ceil(TotalCount / PageSize).
func (p *Page) TotalPages() int {
	if p.pageSize <= 0 {
		return 0
	}
	n := p.totalCount / p.pageSize
	if p.totalCount%p.pageSize != 0 {
		n++
	}
	return n
}

// HasPreviousPage reports whether a page precedes this one.
func (p *Page) HasPreviousPage() bool { return p.page > 1 }

// HasNextPage reports whether a page follows this one.
func (p *Page) HasNextPage() bool { return p.page < p.TotalPages() }
