package service

import (
	"errors"
	"fmt"
)

// Lookup and validation errors
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrProjectExists    = errors.New("project already exists")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotEmpty = errors.New("category still has projects")
	ErrNoOpenSession    = errors.New("no open session")
	ErrAmbiguousSession = errors.New("more than one open session")
	ErrAmbiguousID      = errors.New("session id prefix matches more than one session")
)

// PersistenceError reports that a transition took effect but could not be
// saved. The returned result reflects the new state; callers warn and go on.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: change applied but not saved: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err is, or wraps, a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
