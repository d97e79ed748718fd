package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/devhabit/devhabit/internal/domain"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
	"github.com/devhabit/devhabit/internal/domain/search/relevance"
	"github.com/devhabit/devhabit/internal/domain/search/request"
	"github.com/devhabit/devhabit/internal/domain/search/result"
)

// Service serves the public, read-only view of published blogs.
type Service struct {
	repo  Repository
	owner string
}

// Option configures a Service.
type Option func(*Service)

// WithOwner restricts visibility to blogs authored by userID.
func WithOwner(userID string) Option {
	return func(s *Service) { s.owner = userID }
}

// New creates a search service.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search filters, ranks and pages published blogs.
//
// With search text, blogs whose title, summary or content contain the phrase are
// ordered by relevance, then recency. Without it, all visible blogs are ordered by
// recency and carry no relevance. TotalCount counts the filtered set before paging.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	blogs, err := s.repo.ListPublished(ctx)
	if err != nil {
		return result.Page{}, fmt.Errorf("list published blogs: %w", err)
	}

	var hits []result.Result
	if req.HasSearch() {
		hits = s.rank(blogs, req.Search())
	} else {
		hits = s.recent(blogs)
	}

	start, end := req.Window(len(hits))
	return result.NewPage(hits[start:end], req.Page(), req.PageSize(), len(hits)), nil
}

// Get returns a single published blog. Missing, unpublished and foreign blogs
// are indistinguishable to the caller.
func (s *Service) Get(ctx context.Context, id string) (domblog.Blog, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domblog.Blog{}, domain.ErrNotFound
		}
		return domblog.Blog{}, fmt.Errorf("get blog %s: %w", id, err)
	}
	if !s.visible(&b) {
		return domblog.Blog{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *Service) rank(blogs []domblog.Blog, search string) []result.Result {
	q := relevance.Compile(search)

	hits := make([]result.Result, 0, len(blogs))
	for i := range blogs {
		b := &blogs[i]
		if !s.visible(b) {
			continue
		}
		score, ok := q.Match(b.Title(), b.Summary(), b.Content())
		if !ok {
			continue
		}
		hits = append(hits, result.New(*b, &score))
	}

	sort.SliceStable(hits, func(i, j int) bool {
		si, sj := *hits[i].Relevance(), *hits[j].Relevance()
		if si != sj {
			return si > sj
		}
		return newer(&hits[i], &hits[j])
	})
	return hits
}

func (s *Service) recent(blogs []domblog.Blog) []result.Result {
	hits := make([]result.Result, 0, len(blogs))
	for i := range blogs {
		if s.visible(&blogs[i]) {
			hits = append(hits, result.New(blogs[i], nil))
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return newer(&hits[i], &hits[j])
	})
	return hits
}

func (s *Service) visible(b *domblog.Blog) bool {
	if !b.IsPublished() {
		return false
	}
	return s.owner == "" || b.UserID() == s.owner
}

// newer orders by recency descending, then id ascending so pages never overlap.
func newer(a, b *result.Result) bool {
	ba, bb := a.Blog(), b.Blog()
	ka, kb := ba.RecencyKey(), bb.RecencyKey()
	if !ka.Equal(kb) {
		return ka.After(kb)
	}
	return ba.ID() < bb.ID()
}
