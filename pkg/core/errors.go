package core

import "errors"

// Domain errors. Handlers recover these into alternate views.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrAlreadyExists = errors.New("entry already exists")
	ErrEmptyStore    = errors.New("no entries in store")
	ErrInvalidTitle  = errors.New("invalid entry title")
)

// Infrastructure errors.
var (
	ErrReadOnly         = errors.New("repository is in read-only mode")
	ErrWatchUnsupported = errors.New("repository does not support watching")
)
