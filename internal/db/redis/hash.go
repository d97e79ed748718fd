package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/devhabit/devhabit/internal/db"
)

// HGetAll reads one blog hash. An empty reply means the key is absent.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.client.Do(ctx, s.client.B().Hgetall().Key(key).Build()).AsStrMap()
	switch {
	case err != nil:
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	case len(m) == 0:
		return nil, db.ErrKeyNotFound
	}
	return m, nil
}

// HGetAllMulti pipelines one HGETALL per key. Absent keys keep an empty map
// at their index so callers can zip the result with keys.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make(rueidis.Commands, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, s.client.B().Hgetall().Key(key).Build())
	}

	out := make([]map[string]string, 0, len(keys))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out = append(out, m)
	}
	return out, nil
}
