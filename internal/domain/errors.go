package domain

import "errors"

var (
	// ErrNotFound signals a missing or non-public resource.
	// Callers cannot tell "never existed" from "exists but unpublished".
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals malformed search parameters (page, page size, query length).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidBlog signals a blog that fails aggregate validation.
	ErrInvalidBlog = errors.New("invalid blog")
)
