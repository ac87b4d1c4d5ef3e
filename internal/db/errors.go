package db

import (
	"errors"
	"strings"
)

// Sentinel errors for database operations.
var (
	ErrNoScript       = errors.New("db: script not cached")
	ErrMalformedReply = errors.New("db: malformed reply")
	// ErrServer tags error replies sent by a reachable server
	// (script errors, BUSY, OOM, WRONGTYPE).
	ErrServer = errors.New("db: server error reply")
)

// unavailableReplies are error replies meaning the server cannot serve
// right now; they are treated like transport failures.
var unavailableReplies = []string{"LOADING", "CLUSTERDOWN", "TRYAGAIN", "MASTERDOWN"}

// IsUnavailableReply reports whether a server error message says the
// server is temporarily unable to serve.
func IsUnavailableReply(msg string) bool {
	msg = strings.ToUpper(strings.TrimSpace(msg))
	for _, p := range unavailableReplies {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}

// Op constants map to Valkey/Redis command names for error context.
const (
	OpPing    = "PING"
	OpEvalSHA = "EVALSHA"
	OpEval    = "EVAL"
	OpDel     = "DEL"
	OpSAdd    = "SADD"
	OpRPush   = "RPUSH"
	OpHSet    = "HSET"
	OpZAdd    = "ZADD"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
