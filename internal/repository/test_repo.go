package repository

import (
	"fmt"
	"time"

	"github.com/RafcikJ/10x-memo/internal/database"
	"github.com/RafcikJ/10x-memo/internal/models"
)

// TestRepository persists completed test runs and the owning list's summary
type TestRepository struct {
	db *database.DB
}

// NewTestRepository creates a new test repository
func NewTestRepository(db *database.DB) *TestRepository {
	return &TestRepository{db: db}
}

// RecordCompletion inserts an immutable test record and updates the list's
// last-test summary in one transaction. The list's first_tested_at is set
// only when still null, which makes the lock transition one-way no matter
// how many tests follow. Last-write-wins on the last_* fields.
func (r *TestRepository) RecordCompletion(listID int64, correct, wrong, itemsCount, score int, completedAt time.Time) (*models.TestRecord, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	testID, err := tx.ExecReturningID(
		"INSERT INTO tests (list_id, correct, wrong, items_count, score, completed_at) VALUES (?, ?, ?, ?, ?, ?)",
		listID, correct, wrong, itemsCount, score, completedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert test record: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE lists
		SET last_score = ?,
		    last_correct = ?,
		    last_wrong = ?,
		    last_tested_at = ?,
		    first_tested_at = COALESCE(first_tested_at, ?),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		score, correct, wrong, completedAt, completedAt, listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update list summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TestRecord{
		ID:          testID,
		ListID:      listID,
		Correct:     correct,
		Wrong:       wrong,
		ItemsCount:  itemsCount,
		Score:       score,
		CompletedAt: completedAt,
	}, nil
}

// GetListTests retrieves a list's test history, newest first
func (r *TestRepository) GetListTests(listID int64) ([]models.TestRecord, error) {
	query := `
		SELECT id, list_id, correct, wrong, items_count, score, completed_at
		FROM tests
		WHERE list_id = ?
		ORDER BY completed_at DESC
	`

	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tests: %w", err)
	}
	defer rows.Close()

	var tests []models.TestRecord
	for rows.Next() {
		var t models.TestRecord
		if err := rows.Scan(
			&t.ID,
			&t.ListID,
			&t.Correct,
			&t.Wrong,
			&t.ItemsCount,
			&t.Score,
			&t.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test record: %w", err)
		}
		tests = append(tests, t)
	}

	return tests, rows.Err()
}
