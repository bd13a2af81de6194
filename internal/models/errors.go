package models

import "fmt"

// ErrorKind partitions request failures by caller-visible remediation.
type ErrorKind int

const (
	// KindPlanning covers malformed input rejected before execution.
	KindPlanning ErrorKind = iota
	// KindExecution covers generic downstream query failures.
	KindExecution
	// KindTimeout means the query ran too long; callers may suggest
	// reducing joins or page size.
	KindTimeout
	// KindAuth means the database rejected our credentials; callers are
	// expected to force a disconnect of the shared connection.
	KindAuth
)

func (k ErrorKind) String() string {
	switch k {
	case KindPlanning:
		return "planning"
	case KindExecution:
		return "execution"
	case KindTimeout:
		return "timeout"
	case KindAuth:
		return "auth"
	}
	return "unknown"
}

// QueryError wraps a request-scoped failure with its kind. Nothing in the
// grid core is fatal to the process.
type QueryError struct {
	Kind ErrorKind
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func NewQueryError(kind ErrorKind, err error) *QueryError {
	return &QueryError{Kind: kind, Err: err}
}
