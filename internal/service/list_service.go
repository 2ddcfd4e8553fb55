package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/RafcikJ/10x-memo/internal/models"
	"github.com/RafcikJ/10x-memo/internal/repository"
)

const (
	maxNameLength    = 80
	maxDisplayLength = 80
	maxListItems     = 200
)

// ListService handles word list business logic: creation, item mutation
// under the lock rule, and access bookkeeping.
type ListService struct {
	listRepo *repository.ListRepository
}

// NewListService creates a new list service
func NewListService(listRepo *repository.ListRepository) *ListService {
	return &ListService{listRepo: listRepo}
}

// NewItem describes one item of a list being created
type NewItem struct {
	Position int
	Display  string
}

// CreateList validates and creates a list together with its items.
// Category is required for AI lists and must be absent for manual ones.
func (s *ListService) CreateList(userID, name string, source models.ListSource, category *string, items []NewItem) (*models.ListWithItems, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "name is required"}
	}
	if len([]rune(name)) > maxNameLength {
		return nil, ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}

	switch source {
	case models.SourceManual:
		if category != nil {
			return nil, ValidationError{Field: "category", Message: "category is only valid for AI-generated lists"}
		}
	case models.SourceAI:
		if category == nil || !models.IsValidCategory(*category) {
			return nil, ValidationError{Field: "category", Message: "a valid category is required for AI-generated lists"}
		}
	default:
		return nil, ValidationError{Field: "source", Message: "source must be manual or ai"}
	}

	if len(items) == 0 {
		return nil, ValidationError{Field: "items", Message: "at least one item is required"}
	}
	if len(items) > maxListItems {
		return nil, ValidationError{Field: "items", Message: fmt.Sprintf("at most %d items are allowed", maxListItems)}
	}

	rows := make([]models.WordListItem, len(items))
	seen := make(map[int]bool, len(items))
	for i, item := range items {
		display := strings.TrimSpace(item.Display)
		if display == "" {
			return nil, ValidationError{Field: "items", Message: fmt.Sprintf("item %d: display text is required", i+1)}
		}
		if len([]rune(display)) > maxDisplayLength {
			return nil, ValidationError{Field: "items", Message: fmt.Sprintf("item %d: display text must be at most %d characters", i+1, maxDisplayLength)}
		}
		if item.Position < 1 || item.Position > maxListItems {
			return nil, ValidationError{Field: "items", Message: fmt.Sprintf("item %d: position out of range", i+1)}
		}
		if seen[item.Position] {
			return nil, ValidationError{Field: "items", Message: fmt.Sprintf("duplicate position %d", item.Position)}
		}
		seen[item.Position] = true

		rows[i] = models.WordListItem{
			Position:   item.Position,
			Display:    display,
			Normalized: Normalize(display),
		}
	}

	// Positions must be dense 1..N
	for p := 1; p <= len(items); p++ {
		if !seen[p] {
			return nil, ValidationError{Field: "items", Message: fmt.Sprintf("positions must be contiguous, missing %d", p)}
		}
	}

	return s.listRepo.CreateListWithItems(userID, name, source, category, rows)
}

// GetList returns a user's list, or ErrListNotFound
func (s *ListService) GetList(listID int64, userID string) (*models.WordList, error) {
	list, err := s.listRepo.GetListByID(listID, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	return list, nil
}

// GetListWithItems returns a user's list with items in position order
func (s *ListService) GetListWithItems(listID int64, userID string) (*models.ListWithItems, error) {
	list, err := s.GetList(listID, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.listRepo.GetListItems(listID)
	if err != nil {
		return nil, err
	}
	return &models.ListWithItems{List: *list, Items: items}, nil
}

// GetUserLists returns a page of the user's lists
func (s *ListService) GetUserLists(userID string, limit, offset int) ([]models.WordList, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.listRepo.GetUserLists(userID, limit, offset)
}

// RenameList updates a list's name. Renaming is allowed even on locked
// lists; only the item set is frozen by the lock.
func (s *ListService) RenameList(listID int64, userID, name string) (*models.WordList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "name is required"}
	}
	if len([]rune(name)) > maxNameLength {
		return nil, ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength)}
	}

	if _, err := s.GetList(listID, userID); err != nil {
		return nil, err
	}
	if err := s.listRepo.RenameList(listID, name); err != nil {
		return nil, err
	}
	return s.GetList(listID, userID)
}

// DeleteList removes a list with its items and test history
func (s *ListService) DeleteList(listID int64, userID string) error {
	if _, err := s.GetList(listID, userID); err != nil {
		return err
	}
	return s.listRepo.DeleteList(listID)
}

// TouchList records that the user opened the list, for recently-used sorting
func (s *ListService) TouchList(listID int64, userID string) error {
	if _, err := s.GetList(listID, userID); err != nil {
		return err
	}
	return s.listRepo.TouchList(listID, time.Now().UTC())
}

// AddItem appends a word to an unlocked list
func (s *ListService) AddItem(listID int64, userID, display string) (*models.WordListItem, error) {
	list, err := s.GetList(listID, userID)
	if err != nil {
		return nil, err
	}
	if err := assertMutable(list); err != nil {
		return nil, err
	}

	display = strings.TrimSpace(display)
	if display == "" {
		return nil, ValidationError{Field: "display", Message: "display text is required"}
	}
	if len([]rune(display)) > maxDisplayLength {
		return nil, ValidationError{Field: "display", Message: fmt.Sprintf("display text must be at most %d characters", maxDisplayLength)}
	}

	count, err := s.listRepo.CountItems(listID)
	if err != nil {
		return nil, err
	}
	if count >= maxListItems {
		return nil, ValidationError{Field: "items", Message: fmt.Sprintf("list already has the maximum of %d items", maxListItems)}
	}

	return s.listRepo.AddItem(listID, display, Normalize(display))
}

// UpdateItem changes an item's display text on an unlocked list
func (s *ListService) UpdateItem(listID, itemID int64, userID, display string) (*models.WordListItem, error) {
	list, err := s.GetList(listID, userID)
	if err != nil {
		return nil, err
	}
	if err := assertMutable(list); err != nil {
		return nil, err
	}

	display = strings.TrimSpace(display)
	if display == "" {
		return nil, ValidationError{Field: "display", Message: "display text is required"}
	}
	if len([]rune(display)) > maxDisplayLength {
		return nil, ValidationError{Field: "display", Message: fmt.Sprintf("display text must be at most %d characters", maxDisplayLength)}
	}

	item, err := s.listRepo.GetItemByID(itemID, listID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	if err := s.listRepo.UpdateItemDisplay(itemID, display, Normalize(display)); err != nil {
		return nil, err
	}
	return s.listRepo.GetItemByID(itemID, listID)
}

// DeleteItem removes an item from an unlocked list and closes the position gap
func (s *ListService) DeleteItem(listID, itemID int64, userID string) error {
	list, err := s.GetList(listID, userID)
	if err != nil {
		return err
	}
	if err := assertMutable(list); err != nil {
		return err
	}

	item, err := s.listRepo.GetItemByID(itemID, listID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}

	return s.listRepo.DeleteItem(itemID, listID, item.Position)
}

// assertMutable rejects item mutations on a locked list. The lock is
// one-way: there is no unlock path once a first test completed.
func assertMutable(list *models.WordList) error {
	if list.IsLocked() {
		return ErrListLocked
	}
	return nil
}

// Normalize lowercases display text and strips diacritics. The normalized
// form backs duplicate detection; it never affects scoring.
func Normalize(display string) string {
	// Transformers carry state, so the chain is built per call
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, display)
	if err != nil {
		folded = display
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
