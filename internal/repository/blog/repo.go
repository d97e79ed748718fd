package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/devhabit/devhabit/internal/db"
	"github.com/devhabit/devhabit/internal/domain"
	domblog "github.com/devhabit/devhabit/internal/domain/blog"
)

// DefaultKeyPrefix namespaces all keys written by the repository.
const DefaultKeyPrefix = "devhabit:"

// fetchBatch bounds the number of hashes read per DoMulti round-trip.
const fetchBatch = 500

// store is the consumer interface for blogs (ISP).
type store interface {
	// HGetAll returns db.ErrKeyNotFound for an absent hash.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HGetAllMulti is positional: an absent hash yields an empty map at its
	// index, which fetch treats as a stale index entry.
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	WriteIndexed(ctx context.Context, w db.HashWrite) (existed bool, err error)
	DeleteIndexed(ctx context.Context, key, member string, sets ...string) (existed bool, err error)
}

// Repo stores blogs as Redis/Valkey hashes indexed by two id sets:
// every blog and published blogs only.
type Repo struct {
	store  store
	prefix string
}

// New creates a hash-backed blog repository. An empty prefix uses DefaultKeyPrefix.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: keyPrefix}
}

// ListPublished returns a snapshot of all published blogs.
// Ids whose hash has disappeared are skipped.
func (r *Repo) ListPublished(ctx context.Context) ([]domblog.Blog, error) {
	ids, err := r.store.SMembers(ctx, r.publishedKey())
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", r.publishedKey(), err)
	}

	blogs, err := r.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := blogs[:0]
	for i := range blogs {
		if blogs[i].IsPublished() {
			out = append(out, blogs[i])
		}
	}
	return out, nil
}

// ListAll returns every stored blog regardless of publication state.
func (r *Repo) ListAll(ctx context.Context) ([]domblog.Blog, error) {
	ids, err := r.store.SMembers(ctx, r.allKey())
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", r.allKey(), err)
	}
	return r.fetch(ctx, ids)
}

// Get returns a blog by id regardless of publication state.
func (r *Repo) Get(ctx context.Context, id string) (domblog.Blog, error) {
	key := r.blogKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domblog.Blog{}, domain.ErrNotFound
		}
		return domblog.Blog{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return parseHashFields(id, m)
}

// Upsert creates or replaces a blog and updates the id sets in one transaction.
// Returns true if created.
func (r *Repo) Upsert(ctx context.Context, b *domblog.Blog) (bool, error) {
	key := r.blogKey(b.ID())
	fields, absent, err := buildHashFields(b)
	if err != nil {
		return false, err
	}

	w := db.HashWrite{
		Key:    key,
		Fields: fields,
		Drop:   absent,
		Member: b.ID(),
		AddTo:  []string{r.allKey()},
	}
	if b.IsPublished() {
		w.AddTo = append(w.AddTo, r.publishedKey())
	} else {
		w.RemoveFrom = []string{r.publishedKey()}
	}

	existed, err := r.store.WriteIndexed(ctx, w)
	if err != nil {
		return false, fmt.Errorf("write %s: %w", key, err)
	}
	return !existed, nil
}

// Delete removes a blog and its index entries in one transaction.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.blogKey(id)

	existed, err := r.store.DeleteIndexed(ctx, key, id, r.publishedKey(), r.allKey())
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if !existed {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) fetch(ctx context.Context, ids []string) ([]domblog.Blog, error) {
	blogs := make([]domblog.Blog, 0, len(ids))

	for start := 0; start < len(ids); start += fetchBatch {
		end := min(start+fetchBatch, len(ids))
		batch := ids[start:end]

		keys := make([]string, len(batch))
		for i, id := range batch {
			keys[i] = r.blogKey(id)
		}

		maps, err := r.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("fetch blogs: %w", err)
		}

		for i, m := range maps {
			if len(m) == 0 {
				continue
			}
			b, err := parseHashFields(batch[i], m)
			if err != nil {
				return nil, err
			}
			blogs = append(blogs, b)
		}
	}

	return blogs, nil
}

func (r *Repo) blogKey(id string) string {
	return r.prefix + "blog:" + id
}

func (r *Repo) publishedKey() string {
	return r.prefix + "blogs:published"
}

func (r *Repo) allKey() string {
	return r.prefix + "blogs:all"
}
