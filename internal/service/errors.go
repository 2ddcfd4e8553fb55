package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrListNotFound means the list does not exist or belongs to another user
	ErrListNotFound = errors.New("list not found")

	// ErrItemNotFound means the item does not exist within the list
	ErrItemNotFound = errors.New("list item not found")

	// ErrListLocked means the list completed its first test and its items
	// are permanently immutable
	ErrListLocked = errors.New("list is locked after its first test")

	// ErrInsufficientItems means the list is too small to start a test
	ErrInsufficientItems = errors.New("list has too few items to start a test")

	// ErrNoActiveSession means the user has no test session in progress
	ErrNoActiveSession = errors.New("no active test session")

	// ErrSessionNotCompleted means completion was requested before the
	// session reached its terminal state
	ErrSessionNotCompleted = errors.New("test session is not completed")
)

// QuotaExceededError is returned when the daily AI generation ceiling is
// reached; ResetAt is the next UTC midnight, when a fresh day begins.
type QuotaExceededError struct {
	ResetAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily AI generation limit reached, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// ValidationError represents a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
