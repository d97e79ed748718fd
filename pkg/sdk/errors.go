package devhabit

import "github.com/devhabit/devhabit/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound     = domain.ErrNotFound
	ErrInvalidQuery = domain.ErrInvalidQuery
	ErrInvalidBlog  = domain.ErrInvalidBlog
)
