package redis

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/devhabit/devhabit/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestWaitForReady_FirstPing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.WaitForReady(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	refused := errors.New("connection refused")
	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(refused)).
		MinTimes(1)

	s := NewStoreForTest(c)
	err := s.WaitForReady(context.Background(), 250*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if !errors.Is(err, refused) {
		t.Errorf("last ping error should be kept, got %v", err)
	}
}

// --- hash.go tests ---

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "mykey")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"f1": mock.RedisString("v1"),
			"f2": mock.RedisString("v2"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["f1"] != "v1" || m["f2"] != "v2" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAll_Missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "mykey")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{})))

	s := NewStoreForTest(c)
	_, err := s.HGetAll(context.Background(), "mykey")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestHGetAll_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "mykey")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.HGetAll(context.Background(), "mykey")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("transport errors must not look like a missing key")
	}
}

func TestHGetAllMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
				"f": mock.RedisString("a"),
			})),
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{})),
		})

	s := NewStoreForTest(c)
	results, err := s.HGetAllMulti(context.Background(), []string{"k1", "k2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0]["f"] != "a" {
		t.Errorf("unexpected first result: %v", results[0])
	}
	if len(results[1]) != 0 {
		t.Errorf("missing key should map to empty result, got %v", results[1])
	}
}

func TestHGetAllMulti_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(context.DeadlineExceeded)})

	s := NewStoreForTest(c)
	_, err := s.HGetAllMulti(context.Background(), []string{"k1"})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestHGetAllMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil) // client not called
	results, err := s.HGetAllMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil, got %v", results)
	}
}

func TestSMembers_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SMEMBERS", "blogs:published")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("b_1"), mock.RedisString("b_2"))))

	s := NewStoreForTest(c)
	members, err := s.SMembers(context.Background(), "blogs:published")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 || members[0] != "b_1" || members[1] != "b_2" {
		t.Errorf("unexpected members: %v", members)
	}
}

func TestSMembers_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SMEMBERS", "blogs:published")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if _, err := s.SMembers(context.Background(), "blogs:published"); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- tx.go tests ---

// execReplies answers a DoMulti transaction: OK for MULTI, QUEUED for every
// queued command, then the EXEC array.
func execReplies(cmds []rueidis.Completed, exec ...rueidis.RedisMessage) []rueidis.RedisResult {
	out := make([]rueidis.RedisResult, 0, len(cmds))
	out = append(out, mock.Result(mock.RedisString("OK")))
	for range cmds[1 : len(cmds)-1] {
		out = append(out, mock.Result(mock.RedisString("QUEUED")))
	}
	return append(out, mock.Result(mock.RedisArray(exec...)))
}

func commandLines(cmds []rueidis.Completed) [][]string {
	lines := make([][]string, len(cmds))
	for i, cmd := range cmds {
		lines[i] = cmd.Commands()
	}
	return lines
}

func TestWriteIndexed_SingleTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var sent [][]string
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
			sent = commandLines(cmds)
			return execReplies(cmds,
				mock.RedisInt64(0), mock.RedisInt64(1), mock.RedisInt64(0),
				mock.RedisInt64(1), mock.RedisInt64(0))
		})

	s := NewStoreForTest(c)
	existed, err := s.WriteIndexed(context.Background(), db.HashWrite{
		Key:        "blog:b_1",
		Fields:     map[string]string{"title": "Go"},
		Drop:       []string{"summary"},
		Member:     "b_1",
		AddTo:      []string{"blogs:all"},
		RemoveFrom: []string{"blogs:published"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if existed {
		t.Error("expected existed=false")
	}

	want := [][]string{
		{"MULTI"},
		{"EXISTS", "blog:b_1"},
		{"HSET", "blog:b_1", "title", "Go"},
		{"HDEL", "blog:b_1", "summary"},
		{"SADD", "blogs:all", "b_1"},
		{"SREM", "blogs:published", "b_1"},
		{"EXEC"},
	}
	if !slices.EqualFunc(sent, want, slices.Equal[[]string]) {
		t.Errorf("commands = %v, want %v", sent, want)
	}
}

func TestWriteIndexed_Existed(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
			return execReplies(cmds, mock.RedisInt64(1), mock.RedisInt64(0), mock.RedisInt64(0))
		})

	s := NewStoreForTest(c)
	existed, err := s.WriteIndexed(context.Background(), db.HashWrite{
		Key:    "blog:b_1",
		Fields: map[string]string{"title": "Go"},
		Member: "b_1",
		AddTo:  []string{"blogs:all"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !existed {
		t.Error("expected existed=true")
	}
}

func TestWriteIndexed_QueueError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
			out := execReplies(cmds)
			out[2] = mock.Result(mock.RedisError("OOM command not allowed"))
			out[len(out)-1] = mock.Result(mock.RedisError("EXECABORT Transaction discarded"))
			return out
		})

	s := NewStoreForTest(c)
	_, err := s.WriteIndexed(context.Background(), db.HashWrite{
		Key:    "blog:b_1",
		Fields: map[string]string{"title": "Go"},
		Member: "b_1",
		AddTo:  []string{"blogs:all"},
	})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestWriteIndexed_ExecAborted(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
			out := execReplies(cmds)
			out[len(out)-1] = mock.ErrorResult(context.DeadlineExceeded)
			return out
		})

	s := NewStoreForTest(c)
	_, err := s.WriteIndexed(context.Background(), db.HashWrite{
		Key:    "blog:b_1",
		Fields: map[string]string{"title": "Go"},
		Member: "b_1",
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestWriteIndexed_NoFields(t *testing.T) {
	s := NewStoreForTest(nil) // client not called
	if _, err := s.WriteIndexed(context.Background(), db.HashWrite{Key: "blog:b_1"}); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestDeleteIndexed(t *testing.T) {
	tests := []struct {
		name    string
		deleted int64
		want    bool
	}{
		{"existing key", 1, true},
		{"missing key", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)

			var sent [][]string
			c.EXPECT().
				DoMulti(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
					sent = commandLines(cmds)
					return execReplies(cmds, mock.RedisInt64(1), mock.RedisInt64(1), mock.RedisInt64(tc.deleted))
				})

			s := NewStoreForTest(c)
			existed, err := s.DeleteIndexed(context.Background(), "blog:b_1", "b_1", "blogs:published", "blogs:all")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if existed != tc.want {
				t.Errorf("existed = %v, want %v", existed, tc.want)
			}

			want := [][]string{
				{"MULTI"},
				{"SREM", "blogs:published", "b_1"},
				{"SREM", "blogs:all", "b_1"},
				{"DEL", "blog:b_1"},
				{"EXEC"},
			}
			if !slices.EqualFunc(sent, want, slices.Equal[[]string]) {
				t.Errorf("commands = %v, want %v", sent, want)
			}
		})
	}
}

func TestDeleteIndexed_ReplyError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmds ...rueidis.Completed) []rueidis.RedisResult {
			return execReplies(cmds,
				mock.RedisError("WRONGTYPE Operation against a key holding the wrong kind of value"),
				mock.RedisInt64(1))
		})

	s := NewStoreForTest(c)
	if _, err := s.DeleteIndexed(context.Background(), "blog:b_1", "b_1", "blogs:all"); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
