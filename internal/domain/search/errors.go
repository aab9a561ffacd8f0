package search

import "errors"

var (
	// ErrUnavailable is returned when the record store cannot serve a search
	ErrUnavailable = errors.New("search unavailable")

	// ErrNotFound is returned when a single record lookup finds nothing
	ErrNotFound = errors.New("not found")
)
