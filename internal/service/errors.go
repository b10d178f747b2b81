package service

import (
	"errors"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("task not found")
	ErrPersistence     = errors.New("persistence failure")
)

// PersistenceError wraps a failed store call. Error returns the backend's
// own message; errors.Is matches ErrPersistence.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
