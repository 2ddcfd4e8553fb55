package models

import "time"

// TestRecord is an immutable record of one completed test run.
// Invariant: Correct + Wrong == ItemsCount and Score == floor(100 * Correct / ItemsCount).
type TestRecord struct {
	ID          int64
	ListID      int64
	Correct     int
	Wrong       int
	ItemsCount  int
	Score       int
	CompletedAt time.Time
}
