package content

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnknownSection is returned for a section name outside the registry.
	ErrUnknownSection = errors.New("invalid section")
	// ErrNotDeletable is returned when deleting from a singleton section.
	ErrNotDeletable = errors.New("cannot delete this section")
	// ErrNotSingleton is returned when upserting into a collection section.
	ErrNotSingleton = errors.New("section is not a singleton")
)

// ValidationError wraps a malformed or schema-violating request body.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	var fieldErrs validator.ValidationErrors
	if errors.As(e.Err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }
