package devhabit

import (
	dombatch "github.com/devhabit/devhabit/internal/domain/batch"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
	"github.com/devhabit/devhabit/internal/domain/search/result"
	bloguc "github.com/devhabit/devhabit/internal/usecase/blog"
)

func fromInternalBlog(b *domblog.Blog) Blog {
	f := b.Fields()
	return Blog{
		ID:          f.ID,
		UserID:      f.UserID,
		Title:       f.Title,
		Summary:     f.Summary,
		Content:     f.Content,
		IsPublished: f.IsPublished,
		IsArchived:  f.IsArchived,
		PublishedAt: f.PublishedAt,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		Tags:        f.Tags,
	}
}

func fromInternalPage(p *result.Page) SearchPage {
	items := make([]SearchHit, len(p.Items()))
	for i, r := range p.Items() {
		b := r.Blog()
		items[i] = SearchHit{Blog: fromInternalBlog(&b), Relevance: r.Relevance()}
	}
	return SearchPage{
		Items:           items,
		Page:            p.Page(),
		PageSize:        p.PageSize(),
		TotalCount:      p.TotalCount(),
		TotalPages:      p.TotalPages(),
		HasPreviousPage: p.HasPreviousPage(),
		HasNextPage:     p.HasNextPage(),
	}
}

func toInternalInput(in *BlogInput) bloguc.Input {
	return bloguc.Input{
		ID:          in.ID,
		UserID:      in.UserID,
		Title:       in.Title,
		Summary:     in.Summary,
		Content:     in.Content,
		IsPublished: in.IsPublished,
		IsArchived:  in.IsArchived,
		Tags:        in.Tags,
		CreatedAt:   in.CreatedAt,
		PublishedAt: in.PublishedAt,
	}
}

func fromInternalImport(results []dombatch.Result) ImportResult {
	items := make([]ImportItem, len(results))
	for i, r := range results {
		items[i] = ImportItem{
			Index:  r.Index(),
			ID:     r.ID(),
			Status: ImportStatus(r.Status()),
			Err:    r.Err(),
		}
	}
	sum := dombatch.Summarize(results)
	return ImportResult{
		Items:   items,
		Created: sum.Created,
		Updated: sum.Updated,
		Failed:  sum.Failed,
	}
}
