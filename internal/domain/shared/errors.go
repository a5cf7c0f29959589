package shared

import "fmt"

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

// Input errors

// ParseError reports a blueprint line that does not carry the expected numbers.
// Line is 1-based; zero means the line number is unknown.
type ParseError struct {
	*DomainError
	Line  int
	Input string
}

func NewParseError(line int, input, message string) *ParseError {
	msg := message
	if line > 0 {
		msg = fmt.Sprintf("line %d: %s", line, message)
	}
	return &ParseError{
		DomainError: &DomainError{Message: msg},
		Line:        line,
		Input:       input,
	}
}

// Search warnings

// DeadlockWarning is attached to a search result when no unit could be
// afforded for Minutes consecutive minutes from the start.
type DeadlockWarning struct {
	*DomainError
	BlueprintID int
	Minutes     int
}

func NewDeadlockWarning(blueprintID, minutes int) *DeadlockWarning {
	return &DeadlockWarning{
		DomainError: &DomainError{
			Message: fmt.Sprintf("blueprint %d: no unit affordable for the first %d minutes", blueprintID, minutes),
		},
		BlueprintID: blueprintID,
		Minutes:     minutes,
	}
}
