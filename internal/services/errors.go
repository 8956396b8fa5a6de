package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrInvalid   = errors.New("invalid input")
	ErrDuplicate = errors.New("duplicate")
)

// DuplicateError reports a uniqueness violation. Texts lists the colliding
// question texts or quiz titles when they are known.
type DuplicateError struct {
	Resource string
	Texts    []string
}

func (e *DuplicateError) Error() string {
	if len(e.Texts) == 0 {
		return fmt.Sprintf("%s must be unique", e.Resource)
	}
	return fmt.Sprintf("%s must be unique: %s", e.Resource, strings.Join(e.Texts, ", "))
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
