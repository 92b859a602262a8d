package core

import (
	"errors"
)

// Failure classes shared by every operation. Callers branch on them with errors.Is.
var (
	// ErrInvalidArgument reports a nil or stale node, owner or material reference.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports a lookup that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrRejected reports a request the scene refused, e.g. a name collision
	// or a mobility that does not fit the parent.
	ErrRejected = errors.New("rejected")
)
