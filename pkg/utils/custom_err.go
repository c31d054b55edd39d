package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrUnexpectedBehaviorOfAI     = errors.New("unexpected behavior of AI")
	ErrStructuredOutput           = errors.New("could not produce structured output")
	ErrLocationNotFound           = errors.New("location not found")
	ErrLocationServiceUnavailable = errors.New("location service unavailable")
	ErrSessionNotFound            = errors.New("session not found")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrDatabaseError              = errors.New("database error")
)

// LocationNotFoundError names the place the resolver could not match.
// Role is "pickup" or "destination" when the lookup happened during ride negotiation.
type LocationNotFoundError struct {
	Place string
	Role  string
}

func (e *LocationNotFoundError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("could not find a location for %s '%s'", e.Role, e.Place)
	}
	return fmt.Sprintf("could not find a location for '%s'", e.Place)
}

func (e *LocationNotFoundError) Is(target error) bool {
	return target == ErrLocationNotFound
}
