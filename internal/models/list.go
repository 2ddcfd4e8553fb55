package models

import "time"

// ListSource identifies how a list was created
type ListSource string

const (
	SourceManual ListSource = "manual"
	SourceAI     ListSource = "ai"
)

// Valid noun categories for AI-generated lists
const (
	CategoryAnimals        = "animals"
	CategoryFood           = "food"
	CategoryHouseholdItems = "household_items"
	CategoryTransport      = "transport"
	CategoryJobs           = "jobs"
)

// NounCategories lists every valid AI generation category
var NounCategories = []string{
	CategoryAnimals,
	CategoryFood,
	CategoryHouseholdItems,
	CategoryTransport,
	CategoryJobs,
}

// IsValidCategory reports whether c is a known noun category
func IsValidCategory(c string) bool {
	for _, valid := range NounCategories {
		if c == valid {
			return true
		}
	}
	return false
}

// WordList represents a named, ordered collection of vocabulary items owned by one user
type WordList struct {
	ID             int64
	UserID         string
	Name           string
	Source         ListSource
	Category       *string // only set for AI-generated lists
	FirstTestedAt  *time.Time
	LastScore      *int
	LastCorrect    *int
	LastWrong      *int
	LastTestedAt   *time.Time
	LastAccessedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLocked reports whether the list's items are immutable.
// A list locks permanently when its first test completes; the lock is
// derived from first_tested_at rather than stored as a separate flag.
func (l *WordList) IsLocked() bool {
	return l.FirstTestedAt != nil
}

// WordListItem represents one vocabulary entry in a list
type WordListItem struct {
	ID         int64
	ListID     int64
	Position   int // 1-based, dense within the list
	Display    string
	Normalized string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ListWithItems combines a word list with its items in position order
type ListWithItems struct {
	List  WordList
	Items []WordListItem
}
