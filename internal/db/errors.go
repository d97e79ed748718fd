package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
)

// Op constants map to Valkey/Redis command names (or SQL verbs) for error context.
const (
	OpHGetAll  = "HGETALL"
	OpSMembers = "SMEMBERS"
	OpExec     = "EXEC"
	OpSelect   = "SELECT"
	OpUpsert   = "UPSERT"
	OpDelete   = "DELETE"
	OpMigrate  = "MIGRATE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
