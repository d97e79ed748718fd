package devhabit

import "time"

// Blog is a catalog entry.
type Blog struct {
	ID          string
	UserID      string
	Title       string
	Summary     *string
	Content     string
	IsPublished bool
	IsArchived  bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	Tags        []string
}

// SearchHit is a blog in a search page. Relevance is nil when the page was
// ordered by recency (no search text).
type SearchHit struct {
	Blog
	Relevance *float64
}

// SearchPage is one page of public search results.
type SearchPage struct {
	Items           []SearchHit
	Page            int
	PageSize        int
	TotalCount      int
	TotalPages      int
	HasPreviousPage bool
	HasNextPage     bool
}

// BlogInput is an author-supplied blog for Upsert and Import.
// Empty ID creates a new blog. CreatedAt and PublishedAt apply only on creation.
type BlogInput struct {
	ID          string
	UserID      string
	Title       string
	Summary     *string
	Content     string
	IsPublished bool
	IsArchived  bool
	Tags        []string
	CreatedAt   *time.Time
	PublishedAt *time.Time
}

// ImportStatus is the outcome of one imported blog.
type ImportStatus string

// Import status constants.
const (
	ImportCreated ImportStatus = "created"
	ImportUpdated ImportStatus = "updated"
	ImportError   ImportStatus = "error"
)

// ImportItem reports the outcome of one BlogInput.
type ImportItem struct {
	Index  int
	ID     string
	Status ImportStatus
	Err    error
}

// ImportResult reports per-item outcomes with totals.
type ImportResult struct {
	Items   []ImportItem
	Created int
	Updated int
	Failed  int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}
