package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/RafcikJ/10x-memo/internal/database"
)

// QuotaRepository tracks daily AI generation usage per user.
// One row per (user_id, UTC day); a new day is simply a new row, so the
// midnight reset needs no explicit cleanup to be correct.
type QuotaRepository struct {
	db *database.DB
}

// NewQuotaRepository creates a new quota repository
func NewQuotaRepository(db *database.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

// ConsumeIfBelow atomically increments the user's usage for the given day
// if it is still below limit. Returns the usage after the call and whether
// the increment happened. The guard lives in the UPDATE's WHERE clause, so
// two concurrent calls racing for the last slot can never both succeed.
// All three statements run in one transaction: the row lock taken by the
// UPDATE holds until commit, so the usage read back cannot include a
// concurrent consume landing between the statements.
func (r *QuotaRepository) ConsumeIfBelow(userID, dayUTC string, limit int) (used int, consumed bool, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Ensure the day's row exists; racing inserts collapse into one row
	if _, err := tx.Exec(r.db.Dialect.InsertIgnoreQuota(), userID, dayUTC); err != nil {
		return 0, false, fmt.Errorf("failed to ensure quota row: %w", err)
	}

	result, err := tx.Exec(
		"UPDATE ai_usage_daily SET used = used + 1 WHERE user_id = ? AND day_utc = ? AND used < ?",
		userID, dayUTC, limit,
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to increment quota: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read quota update result: %w", err)
	}

	err = tx.QueryRow(
		"SELECT used FROM ai_usage_daily WHERE user_id = ? AND day_utc = ?",
		userID, dayUTC,
	).Scan(&used)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read quota usage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return used, affected > 0, nil
}

// GetUsed returns the user's usage for the given day, zero if no row exists
func (r *QuotaRepository) GetUsed(userID, dayUTC string) (int, error) {
	var used int
	err := r.db.QueryRow(
		"SELECT used FROM ai_usage_daily WHERE user_id = ? AND day_utc = ?",
		userID, dayUTC,
	).Scan(&used)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read quota usage: %w", err)
	}
	return used, nil
}

// DeleteOlderThan removes quota rows for days before cutoff. Usage rows are
// only consulted for the current day, so this is pure housekeeping.
func (r *QuotaRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(
		"DELETE FROM ai_usage_daily WHERE day_utc < ?",
		cutoff.UTC().Format("2006-01-02"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale quota rows: %w", err)
	}
	return result.RowsAffected()
}
