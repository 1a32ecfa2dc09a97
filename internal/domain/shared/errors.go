package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Sentinels for errors.Is checks across the typed errors below.
var (
	ErrInsufficientSoldierCount = errors.New("insufficient soldier count")
	ErrTargetNotFound           = errors.New("target not found in command tree")
	ErrDivisionDestroyed        = errors.New("division has been destroyed")
)

// Division-related errors

type DivisionError struct {
	*DomainError
	DivisionID DivisionID
}

func NewDivisionError(message string, id DivisionID) *DivisionError {
	return &DivisionError{DomainError: &DomainError{Message: message}, DivisionID: id}
}

type InsufficientSoldierCountError struct {
	*DivisionError
	Available int
}

func NewInsufficientSoldierCountError(id DivisionID, available int) *InsufficientSoldierCountError {
	return &InsufficientSoldierCountError{
		DivisionError: NewDivisionError(
			fmt.Sprintf("division %s cannot give up a soldier: has %d", id, available), id),
		Available: available,
	}
}

func (e *InsufficientSoldierCountError) Is(target error) bool {
	return target == ErrInsufficientSoldierCount
}

type DivisionDestroyedError struct {
	*DivisionError
}

func NewDivisionDestroyedError(id DivisionID) *DivisionDestroyedError {
	return &DivisionDestroyedError{
		DivisionError: NewDivisionError(fmt.Sprintf("division %s has been destroyed", id), id),
	}
}

func (e *DivisionDestroyedError) Is(target error) bool {
	return target == ErrDivisionDestroyed
}

// Routing errors

type TargetNotFoundError struct {
	*DomainError
	From   DivisionID
	Target DivisionID
}

func NewTargetNotFoundError(from, target DivisionID) *TargetNotFoundError {
	return &TargetNotFoundError{
		DomainError: NewDomainError(fmt.Sprintf("division %s has no known path to %s", from, target)),
		From:        from,
		Target:      target,
	}
}

func (e *TargetNotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}

// Order errors

type OrderStateError struct {
	*DomainError
	Kind string
}

func NewOrderStateError(kind, message string) *OrderStateError {
	return &OrderStateError{
		DomainError: NewDomainError(fmt.Sprintf("%s order: %s", kind, message)),
		Kind:        kind,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
