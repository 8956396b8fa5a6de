package repositories

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrNotEmpty       = errors.New("quiz still has questions")
	ErrNotImplemented = errors.New("not implemented")
)
