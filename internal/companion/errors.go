package companion

import (
	"errors"
	"fmt"
)

var (
	// ErrEntityNotFound is matched by [EntityNotFoundError].
	ErrEntityNotFound = errors.New("companion: entity not found")

	// ErrFileNotLoaded is returned when a document lacks a file an
	// operation needs.
	ErrFileNotLoaded = errors.New("companion: save file not loaded")
)

// EntityNotFoundError reports that no record of a type id exists in an
// array the operation searched.
type EntityNotFoundError struct {
	// Entity is "actor" or "kill stat".
	Entity string
	TypeID TypeID
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("companion: no %s with type id %d", e.Entity, int64(e.TypeID))
}

func (e *EntityNotFoundError) Unwrap() error { return ErrEntityNotFound }

// UnknownCompanionError is returned by [ParseTypeID] for input that is
// neither a companion name nor a number.
type UnknownCompanionError struct {
	Name string
}

func (e *UnknownCompanionError) Error() string {
	return fmt.Sprintf("companion: unknown companion %q (want Kelvin, Virginia or a type id)", e.Name)
}
