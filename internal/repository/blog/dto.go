package blog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domblog "github.com/devhabit/devhabit/internal/domain/blog"
)

// Hash field names of a stored blog.
const (
	fieldUserID      = "user_id"
	fieldTitle       = "title"
	fieldSummary     = "summary"
	fieldContent     = "content"
	fieldIsPublished = "is_published"
	fieldIsArchived  = "is_archived"
	fieldPublishedAt = "published_at"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
	fieldTags        = "tags"
)

// buildHashFields converts a Blog into a flat map for HSET.
// absent lists optional fields that must be removed from an existing hash.
func buildHashFields(b *domblog.Blog) (fields map[string]string, absent []string, err error) {
	tags, err := json.Marshal(nonNilTags(b.Tags()))
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tags: %w", err)
	}

	fields = map[string]string{
		fieldUserID:      b.UserID(),
		fieldTitle:       b.Title(),
		fieldContent:     b.Content(),
		fieldIsPublished: formatBool(b.IsPublished()),
		fieldIsArchived:  formatBool(b.IsArchived()),
		fieldCreatedAt:   formatTime(b.CreatedAt()),
		fieldTags:        string(tags),
	}

	if s := b.Summary(); s != nil {
		fields[fieldSummary] = *s
	} else {
		absent = append(absent, fieldSummary)
	}
	if t := b.PublishedAt(); t != nil {
		fields[fieldPublishedAt] = formatTime(*t)
	} else {
		absent = append(absent, fieldPublishedAt)
	}
	if t := b.UpdatedAt(); t != nil {
		fields[fieldUpdatedAt] = formatTime(*t)
	} else {
		absent = append(absent, fieldUpdatedAt)
	}
	return fields, absent, nil
}

// parseHashFields converts a stored hash back into a Blog.
// Missing optional fields become nil; malformed timestamps are errors.
func parseHashFields(id string, m map[string]string) (domblog.Blog, error) {
	f := domblog.Fields{
		ID:          id,
		UserID:      m[fieldUserID],
		Title:       m[fieldTitle],
		Content:     m[fieldContent],
		IsPublished: parseBool(m[fieldIsPublished]),
		IsArchived:  parseBool(m[fieldIsArchived]),
	}

	if s, ok := m[fieldSummary]; ok {
		f.Summary = &s
	}

	var err error
	if f.CreatedAt, err = parseTime(m[fieldCreatedAt]); err != nil {
		return domblog.Blog{}, fmt.Errorf("blog %s %s: %w", id, fieldCreatedAt, err)
	}
	if f.PublishedAt, err = parseOptionalTime(m, fieldPublishedAt); err != nil {
		return domblog.Blog{}, fmt.Errorf("blog %s %s: %w", id, fieldPublishedAt, err)
	}
	if f.UpdatedAt, err = parseOptionalTime(m, fieldUpdatedAt); err != nil {
		return domblog.Blog{}, fmt.Errorf("blog %s %s: %w", id, fieldUpdatedAt, err)
	}

	if raw := m[fieldTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &f.Tags); err != nil {
			return domblog.Blog{}, fmt.Errorf("blog %s tags: %w", id, err)
		}
	}

	return domblog.Reconstruct(f), nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func parseOptionalTime(m map[string]string, field string) (*time.Time, error) {
	s, ok := m[field]
	if !ok || s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
