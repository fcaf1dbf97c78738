package service

import (
	"errors"
	"fmt"
)

// ErrValidation marks a request rejected before any write happened. Handlers
// map it to 400.
var ErrValidation = errors.New("validation failed")

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
