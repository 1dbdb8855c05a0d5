package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation is the class of every ValidationError and TransitionError.
var ErrValidation = errors.New("validation error")

// ValidationError describes a rejected input value.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Msg)
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransitionError is returned when a parcel status change is not allowed.
type TransitionError struct {
	From ParcelStatus
	To   ParcelStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("validation: invalid status transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrValidation }
