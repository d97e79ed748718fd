package blog

import (
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/devhabit/devhabit/internal/domain"
)

// Field limits enforced on write.
const (
	MaxTitleLength   = 200
	MaxSummaryLength = 500
	MaxContentLength = 100000
	MaxIDLength      = 500
)

// Blog is the blog aggregate (immutable value object).
type Blog struct {
	id          string
	userID      string
	title       string
	summary     *string
	content     string
	isPublished bool
	isArchived  bool
	publishedAt *time.Time
	createdAt   time.Time
	updatedAt   *time.Time
	tags        []string
}

// Fields carries the raw attributes of a blog for New and Reconstruct.
type Fields struct {
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

// NewID returns a fresh blog identifier of the form b_<uuidv7>.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return "b_" + uuid.NewString()
	}
	return "b_" + id.String()
}

// New validates and creates a Blog.
// Title and content are required; summary, title and content are length-limited.
func New(f Fields) (Blog, error) {
	if f.ID == "" {
		return Blog{}, fmt.Errorf("%w: id is required", domain.ErrInvalidBlog)
	}
	if len(f.ID) > MaxIDLength {
		return Blog{}, fmt.Errorf("%w: id too long (max %d)", domain.ErrInvalidBlog, MaxIDLength)
	}
	if f.Title == "" {
		return Blog{}, fmt.Errorf("%w: title is required", domain.ErrInvalidBlog)
	}
	if utf8.RuneCountInString(f.Title) > MaxTitleLength {
		return Blog{}, fmt.Errorf("%w: title too long (max %d)", domain.ErrInvalidBlog, MaxTitleLength)
	}
	if f.Summary != nil && utf8.RuneCountInString(*f.Summary) > MaxSummaryLength {
		return Blog{}, fmt.Errorf("%w: summary too long (max %d)", domain.ErrInvalidBlog, MaxSummaryLength)
	}
	if f.Content == "" {
		return Blog{}, fmt.Errorf("%w: content is required", domain.ErrInvalidBlog)
	}
	if utf8.RuneCountInString(f.Content) > MaxContentLength {
		return Blog{}, fmt.Errorf("%w: content too long (max %d)", domain.ErrInvalidBlog, MaxContentLength)
	}
	if f.CreatedAt.IsZero() {
		return Blog{}, fmt.Errorf("%w: created_at is required", domain.ErrInvalidBlog)
	}
	return Reconstruct(f), nil
}

// Reconstruct creates a Blog without validation (storage hydration).
func Reconstruct(f Fields) Blog {
	return Blog{
		id:          f.ID,
		userID:      f.UserID,
		title:       f.Title,
		summary:     cloneString(f.Summary),
		content:     f.Content,
		isPublished: f.IsPublished,
		isArchived:  f.IsArchived,
		publishedAt: cloneTime(f.PublishedAt),
		createdAt:   f.CreatedAt,
		updatedAt:   cloneTime(f.UpdatedAt),
		tags:        slices.Clone(f.Tags),
	}
}

// ID returns the blog identifier.
func (b *Blog) ID() string { return b.id }

// UserID returns the author identifier.
func (b *Blog) UserID() string { return b.userID }

// Title returns the blog title.
func (b *Blog) Title() string { return b.title }

// Summary returns the optional summary (nil when absent).
func (b *Blog) Summary() *string { return b.summary }

// Content returns the body text.
func (b *Blog) Content() string { return b.content }

// IsPublished reports whether the blog is publicly visible.
func (b *Blog) IsPublished() bool { return b.isPublished }

// IsArchived reports whether the blog is archived.
func (b *Blog) IsArchived() bool { return b.isArchived }

// PublishedAt returns the first-publish time (nil when never published).
func (b *Blog) PublishedAt() *time.Time { return b.publishedAt }

// CreatedAt returns the creation time.
func (b *Blog) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last update time (nil when never updated).
func (b *Blog) UpdatedAt() *time.Time { return b.updatedAt }

// Tags returns the tag names.
func (b *Blog) Tags() []string { return b.tags }

// RecencyKey is the ordering timestamp: PublishedAt when set, else CreatedAt.
func (b *Blog) RecencyKey() time.Time {
	if b.publishedAt != nil {
		return *b.publishedAt
	}
	return b.createdAt
}

// Fields returns a copy of the blog attributes.
func (b *Blog) Fields() Fields {
	return Fields{
		ID:          b.id,
		UserID:      b.userID,
		Title:       b.title,
		Summary:     cloneString(b.summary),
		Content:     b.content,
		IsPublished: b.isPublished,
		IsArchived:  b.isArchived,
		PublishedAt: cloneTime(b.publishedAt),
		CreatedAt:   b.createdAt,
		UpdatedAt:   cloneTime(b.updatedAt),
		Tags:        slices.Clone(b.tags),
	}
}

// ApplyUpdate returns the next state of b after an edit at time now.
// Publishing an unpublished blog stamps PublishedAt; unpublishing clears it.
// ID, author and creation time are preserved from b.
func (b *Blog) ApplyUpdate(next Fields, now time.Time) Fields {
	next.ID = b.id
	next.UserID = b.userID
	next.CreatedAt = b.createdAt

	switch {
	case next.IsPublished && (!b.isPublished || b.publishedAt == nil):
		next.PublishedAt = &now
	case !next.IsPublished && b.isPublished:
		next.PublishedAt = nil
	default:
		next.PublishedAt = cloneTime(b.publishedAt)
	}
	next.UpdatedAt = &now
	return next
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
