package model

import "errors"

var (
	// ErrNotFound indicates a link was not found.
	ErrNotFound = errors.New("link not found")

	// ErrInvalidURL indicates an invalid URL was provided.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidID indicates a string that is not the canonical ID of a single key.
	ErrInvalidID = errors.New("invalid ID")
)
