package reference

import "errors"

// ErrLoad is returned when no source yields a usable dataset.
var ErrLoad = errors.New("load reference benchmarks")
