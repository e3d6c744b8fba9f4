package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrInvalidIndex  = errors.New("db: invalid index definition")
)

// Op names attached to Error for diagnostics.
const (
	OpPing        = "ping"
	OpCreateIndex = "create_index"
	OpDropIndex   = "drop_index"
	OpIndexInfo   = "index_info"
	OpBulk        = "bulk"
	OpSearch      = "search"
	OpExists      = "exists"
	OpGet         = "get"
	OpSet         = "set"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
