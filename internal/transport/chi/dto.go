package chi

import (
	"time"

	domblog "github.com/devhabit/devhabit/internal/domain/blog"
	"github.com/devhabit/devhabit/internal/domain/search/result"
	healthuc "github.com/devhabit/devhabit/internal/usecase/health"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeNotFound      = "not_found"
	codeInvalidQuery  = "invalid_query"
	codeInternalError = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BlogItem is a public blog as served to anonymous readers.
type BlogItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Summary        *string    `json:"summary,omitempty"`
	Content        string     `json:"content"`
	IsPublished    bool       `json:"isPublished"`
	IsArchived     bool       `json:"isArchived"`
	PublishedAtUTC *time.Time `json:"publishedAtUtc,omitempty"`
	CreatedAtUTC   time.Time  `json:"createdAtUtc"`
	UpdatedAtUTC   *time.Time `json:"updatedAtUtc,omitempty"`
	Relevance      *float64   `json:"relevance,omitempty"`
	Tags           []string   `json:"tags"`
}

// SearchResponse is one page of public search results.
type SearchResponse struct {
	Items           []BlogItem `json:"items"`
	Page            int        `json:"page"`
	PageSize        int        `json:"pageSize"`
	TotalCount      int        `json:"totalCount"`
	TotalPages      int        `json:"totalPages"`
	HasPreviousPage bool       `json:"hasPreviousPage"`
	HasNextPage     bool       `json:"hasNextPage"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func blogToItem(b *domblog.Blog, relevance *float64) BlogItem {
	tags := b.Tags()
	if tags == nil {
		tags = []string{}
	}
	return BlogItem{
		ID:             b.ID(),
		Title:          b.Title(),
		Summary:        b.Summary(),
		Content:        b.Content(),
		IsPublished:    b.IsPublished(),
		IsArchived:     b.IsArchived(),
		PublishedAtUTC: utcPtr(b.PublishedAt()),
		CreatedAtUTC:   b.CreatedAt().UTC(),
		UpdatedAtUTC:   utcPtr(b.UpdatedAt()),
		Relevance:      relevance,
		Tags:           tags,
	}
}

func pageToResponse(p *result.Page) SearchResponse {
	items := make([]BlogItem, len(p.Items()))
	for i, r := range p.Items() {
		b := r.Blog()
		items[i] = blogToItem(&b, r.Relevance())
	}
	return SearchResponse{
		Items:           items,
		Page:            p.Page(),
		PageSize:        p.PageSize(),
		TotalCount:      p.TotalCount(),
		TotalPages:      p.TotalPages(),
		HasPreviousPage: p.HasPreviousPage(),
		HasNextPage:     p.HasNextPage(),
	}
}

func reportToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
