package queue

import "errors"

// Scheduler error taxonomy. Handlers match with errors.Is and map each
// sentinel to an HTTP status. ErrConcurrencyConflict and ErrTimeout are
// safe to retry; everything else is terminal for that invocation.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("token not found")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrStaleDate           = errors.New("token is not for the current service date")
	ErrPermissionScope     = errors.New("queue key outside caller scope")
	ErrConcurrencyConflict = errors.New("lost race on conditional update")
	ErrTimeout             = errors.New("deadline exceeded before commit")
)
