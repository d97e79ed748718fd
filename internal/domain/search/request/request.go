package request

import (
	"fmt"
	"strings"

	"github.com/devhabit/devhabit/internal/domain"
)

// Search parameter limits and defaults.
const (
	// MaxQueryLength is the maximum allowed search text length in bytes.
	MaxQueryLength  = 4096
	DefaultPage     = 1
	DefaultPageSize = 10
	// MaxPageSize is the hard ceiling; transports clamp to a lower configured limit.
	MaxPageSize = 1000
)

// Request is a validated public search query.
type Request struct {
	search   string
	page     int
	pageSize int
}

// New validates search parameters. The search text is trimmed; an empty
// result means "no search" (recency ordering). Page is 1-based.
func New(search string, page, pageSize int) (Request, error) {
	search = strings.TrimSpace(search)
	if len(search) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if page < 1 {
		return Request{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidQuery, page)
	}
	if pageSize < 1 {
		return Request{}, fmt.Errorf("%w: pageSize must be >= 1, got %d", domain.ErrInvalidQuery, pageSize)
	}
	if pageSize > MaxPageSize {
		return Request{}, fmt.Errorf("%w: pageSize must be <= %d, got %d", domain.ErrInvalidQuery, MaxPageSize, pageSize)
	}
	return Request{search: search, page: page, pageSize: pageSize}, nil
}

// Search returns the trimmed search text (may be empty).
func (r *Request) Search() string { return r.search }

// HasSearch reports whether relevance ranking applies.
func (r *Request) HasSearch() bool { return r.search != "" }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the maximum number of items per page.
func (r *Request) PageSize() int { return r.pageSize }

// Window returns the [start, end) slice bounds of this page within n items.
// Both bounds are clamped to n, so an out-of-range page yields start == end.
func (r *Request) Window(n int) (start, end int) {
	pages := n / r.pageSize
	if n%r.pageSize != 0 {
		pages++
	}
	if r.page-1 >= pages {
		return n, n
	}
	start = (r.page - 1) * r.pageSize
	end = min(start+r.pageSize, n)
	return start, end
}
