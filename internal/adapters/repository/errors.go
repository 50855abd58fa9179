package repository

import "errors"

// Sentinel kinds for record log errors.
var (
	ErrAppend = errors.New("append record failed")
	ErrRead   = errors.New("read records failed")
)
