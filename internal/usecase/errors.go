package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidPage      = errors.New("page number out of range")
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("concurrent modification conflict")
	ErrStoreUnavailable = errors.New("member store unavailable")
)
