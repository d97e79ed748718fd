package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/devhabit/devhabit/internal/db"
)

var errEmptyWrite = errors.New("hash write has no fields")

// WriteIndexed sends EXISTS, HSET, HDEL and the set updates as one MULTI/EXEC
// block in a single DoMulti round-trip. The EXISTS reply is taken inside the
// transaction, so it reflects the state the write replaced.
func (s *Store) WriteIndexed(ctx context.Context, w db.HashWrite) (bool, error) {
	if len(w.Fields) == 0 {
		return false, &db.Error{Op: db.OpExec, Err: fmt.Errorf("key %s: %w", w.Key, errEmptyWrite)}
	}

	b := s.client.B()
	hset := b.Hset().Key(w.Key).FieldValue()
	for k, v := range w.Fields {
		hset = hset.FieldValue(k, v)
	}

	cmds := rueidis.Commands{
		b.Multi().Build(),
		b.Exists().Key(w.Key).Build(),
		hset.Build(),
	}
	if len(w.Drop) > 0 {
		cmds = append(cmds, b.Hdel().Key(w.Key).Field(w.Drop...).Build())
	}
	for _, set := range w.AddTo {
		cmds = append(cmds, b.Sadd().Key(set).Member(w.Member).Build())
	}
	for _, set := range w.RemoveFrom {
		cmds = append(cmds, b.Srem().Key(set).Member(w.Member).Build())
	}
	cmds = append(cmds, b.Exec().Build())

	replies, err := s.exec(ctx, cmds)
	if err != nil {
		return false, &db.Error{Op: db.OpExec, Err: fmt.Errorf("write %s: %w", w.Key, err)}
	}
	n, err := replies[0].AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExec, Err: fmt.Errorf("write %s: exists reply: %w", w.Key, err)}
	}
	return n > 0, nil
}

// DeleteIndexed removes member from every set and deletes key in one
// MULTI/EXEC block. The DEL reply tells whether key existed.
func (s *Store) DeleteIndexed(ctx context.Context, key, member string, sets ...string) (bool, error) {
	b := s.client.B()
	cmds := rueidis.Commands{b.Multi().Build()}
	for _, set := range sets {
		cmds = append(cmds, b.Srem().Key(set).Member(member).Build())
	}
	cmds = append(cmds, b.Del().Key(key).Build(), b.Exec().Build())

	replies, err := s.exec(ctx, cmds)
	if err != nil {
		return false, &db.Error{Op: db.OpExec, Err: fmt.Errorf("delete %s: %w", key, err)}
	}
	n, err := replies[len(replies)-1].AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExec, Err: fmt.Errorf("delete %s: del reply: %w", key, err)}
	}
	return n > 0, nil
}

// exec runs a MULTI ... EXEC block and returns the EXEC replies. A command
// rejected at queue time makes the server discard the whole block.
func (s *Store) exec(ctx context.Context, cmds rueidis.Commands) ([]rueidis.RedisMessage, error) {
	results := s.client.DoMulti(ctx, cmds...)
	if len(results) != len(cmds) {
		return nil, fmt.Errorf("got %d replies for %d commands", len(results), len(cmds))
	}

	last := len(results) - 1
	for i, res := range results[:last] {
		if err := res.Error(); err != nil {
			return nil, fmt.Errorf("%s: %w", cmds[i].Commands()[0], err)
		}
	}

	replies, err := results[last].ToArray()
	if err != nil {
		return nil, err
	}
	// MULTI and EXEC produce no entry in the EXEC array.
	if len(replies) != len(cmds)-2 {
		return nil, fmt.Errorf("exec returned %d replies for %d commands", len(replies), len(cmds)-2)
	}
	for i := range replies {
		if err := replies[i].Error(); err != nil {
			return nil, fmt.Errorf("%s: %w", cmds[i+1].Commands()[0], err)
		}
	}
	return replies, nil
}
