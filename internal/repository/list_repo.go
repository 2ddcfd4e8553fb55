package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/RafcikJ/10x-memo/internal/database"
	"github.com/RafcikJ/10x-memo/internal/models"
)

// ListRepository handles database operations for word lists and their items
type ListRepository struct {
	db *database.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *database.DB) *ListRepository {
	return &ListRepository{db: db}
}

const listColumns = `id, user_id, name, source, category, first_tested_at,
	last_score, last_correct, last_wrong, last_tested_at, last_accessed_at,
	created_at, updated_at`

// CreateListWithItems creates a list and its items in a single transaction
func (r *ListRepository) CreateListWithItems(userID, name string, source models.ListSource, category *string, items []models.WordListItem) (*models.ListWithItems, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	listID, err := tx.ExecReturningID(
		"INSERT INTO lists (user_id, name, source, category) VALUES (?, ?, ?, ?)",
		userID, name, string(source), category,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	for i := range items {
		itemID, err := tx.ExecReturningID(
			"INSERT INTO list_items (list_id, position, display, normalized) VALUES (?, ?, ?, ?)",
			listID, items[i].Position, items[i].Display, items[i].Normalized,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create list item: %w", err)
		}
		items[i].ID = itemID
		items[i].ListID = listID
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	list, err := r.GetListByID(listID, userID)
	if err != nil {
		return nil, err
	}
	return &models.ListWithItems{List: *list, Items: items}, nil
}

// GetListByID retrieves a list owned by the given user, or nil if not found
func (r *ListRepository) GetListByID(listID int64, userID string) (*models.WordList, error) {
	query := "SELECT " + listColumns + " FROM lists WHERE id = ? AND user_id = ?"

	list, err := scanList(r.db.QueryRow(query, listID, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return list, nil
}

// GetUserLists retrieves the user's lists, most recently accessed first.
// The id tiebreaker keeps LIMIT/OFFSET pagination stable when several
// lists share a timestamp.
func (r *ListRepository) GetUserLists(userID string, limit, offset int) ([]models.WordList, error) {
	query := "SELECT " + listColumns + ` FROM lists
		WHERE user_id = ?
		ORDER BY COALESCE(last_accessed_at, created_at) DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []models.WordList
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, *list)
	}

	return lists, rows.Err()
}

// RenameList updates a list's name
func (r *ListRepository) RenameList(listID int64, name string) error {
	query := "UPDATE lists SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, name, listID); err != nil {
		return fmt.Errorf("failed to rename list: %w", err)
	}
	return nil
}

// DeleteList deletes a list; items and test history cascade
func (r *ListRepository) DeleteList(listID int64) error {
	if _, err := r.db.Exec("DELETE FROM lists WHERE id = ?", listID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// TouchList bumps the list's last_accessed_at timestamp
func (r *ListRepository) TouchList(listID int64, at time.Time) error {
	query := "UPDATE lists SET last_accessed_at = ? WHERE id = ?"
	if _, err := r.db.Exec(query, at, listID); err != nil {
		return fmt.Errorf("failed to touch list: %w", err)
	}
	return nil
}

// GetListItems retrieves a list's items in position order
func (r *ListRepository) GetListItems(listID int64) ([]models.WordListItem, error) {
	query := `
		SELECT id, list_id, position, display, normalized, created_at, updated_at
		FROM list_items
		WHERE list_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query list items: %w", err)
	}
	defer rows.Close()

	var items []models.WordListItem
	for rows.Next() {
		var item models.WordListItem
		if err := rows.Scan(
			&item.ID,
			&item.ListID,
			&item.Position,
			&item.Display,
			&item.Normalized,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan list item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetItemByID retrieves a single item of a list, or nil if not found
func (r *ListRepository) GetItemByID(itemID, listID int64) (*models.WordListItem, error) {
	query := `
		SELECT id, list_id, position, display, normalized, created_at, updated_at
		FROM list_items
		WHERE id = ? AND list_id = ?
	`

	var item models.WordListItem
	err := r.db.QueryRow(query, itemID, listID).Scan(
		&item.ID,
		&item.ListID,
		&item.Position,
		&item.Display,
		&item.Normalized,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list item: %w", err)
	}
	return &item, nil
}

// CountItems returns the number of items in a list
func (r *ListRepository) CountItems(listID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM list_items WHERE list_id = ?", listID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count list items: %w", err)
	}
	return count, nil
}

// AddItem appends an item at the next free position
func (r *ListRepository) AddItem(listID int64, display, normalized string) (*models.WordListItem, error) {
	var position int
	err := r.db.QueryRow(
		"SELECT COALESCE(MAX(position), 0) + 1 FROM list_items WHERE list_id = ?", listID,
	).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("failed to determine item position: %w", err)
	}

	itemID, err := r.db.ExecReturningID(
		"INSERT INTO list_items (list_id, position, display, normalized) VALUES (?, ?, ?, ?)",
		listID, position, display, normalized,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add list item: %w", err)
	}

	return r.GetItemByID(itemID, listID)
}

// UpdateItemDisplay updates an item's display text and normalized form
func (r *ListRepository) UpdateItemDisplay(itemID int64, display, normalized string) error {
	query := `
		UPDATE list_items
		SET display = ?, normalized = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, display, normalized, itemID); err != nil {
		return fmt.Errorf("failed to update list item: %w", err)
	}
	return nil
}

// DeleteItem removes an item and renumbers higher positions down by one,
// keeping the 1..N position sequence dense. Both steps run in one
// transaction so a failed renumber never leaves a gap behind.
func (r *ListRepository) DeleteItem(itemID, listID int64, position int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM list_items WHERE id = ? AND list_id = ?", itemID, listID); err != nil {
		return fmt.Errorf("failed to delete list item: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE list_items SET position = position - 1 WHERE list_id = ? AND position > ?",
		listID, position,
	); err != nil {
		return fmt.Errorf("failed to renumber list items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared list scanning
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanList(s scanner) (*models.WordList, error) {
	var list models.WordList
	var source string
	var category sql.NullString
	var firstTestedAt, lastTestedAt, lastAccessedAt sql.NullTime
	var lastScore, lastCorrect, lastWrong sql.NullInt64

	err := s.Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&source,
		&category,
		&firstTestedAt,
		&lastScore,
		&lastCorrect,
		&lastWrong,
		&lastTestedAt,
		&lastAccessedAt,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	list.Source = models.ListSource(source)
	if category.Valid {
		list.Category = &category.String
	}
	if firstTestedAt.Valid {
		list.FirstTestedAt = &firstTestedAt.Time
	}
	if lastTestedAt.Valid {
		list.LastTestedAt = &lastTestedAt.Time
	}
	if lastAccessedAt.Valid {
		list.LastAccessedAt = &lastAccessedAt.Time
	}
	if lastScore.Valid {
		score := int(lastScore.Int64)
		list.LastScore = &score
	}
	if lastCorrect.Valid {
		correct := int(lastCorrect.Int64)
		list.LastCorrect = &correct
	}
	if lastWrong.Valid {
		wrong := int(lastWrong.Int64)
		list.LastWrong = &wrong
	}

	return &list, nil
}
