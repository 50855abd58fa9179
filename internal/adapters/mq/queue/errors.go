package queue

import "errors"

// Enqueue failures.
var (
	ErrClosed = errors.New("queue closed")
	ErrFull   = errors.New("queue full")
)
