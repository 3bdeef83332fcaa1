package store

import "errors"

// ErrNotFound reports an unknown task id.
var ErrNotFound = errors.New("task not found")

// ErrAmbiguousID reports an id prefix matching more than one task.
var ErrAmbiguousID = errors.New("ambiguous task id prefix")

// ErrClosed reports use of a store after Close.
var ErrClosed = errors.New("store is closed")
