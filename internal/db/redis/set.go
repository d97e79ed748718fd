package redis

import (
	"context"

	"github.com/devhabit/devhabit/internal/db"
)

// SMembers lists an index set. A missing set reads as empty.
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.Do(ctx, s.client.B().Smembers().Key(key).Build()).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpSMembers, Err: err}
	}
	return members, nil
}
