package database

import "errors"

var (
	// ErrDuplicateIdentity is returned by Create when the name is already taken.
	ErrDuplicateIdentity = errors.New("identity already exists")

	// ErrNotFound is returned by Delete when no identity has the given name.
	ErrNotFound = errors.New("identity not found")
)
