package service

import (
	"time"

	"github.com/RafcikJ/10x-memo/internal/models"
	"github.com/RafcikJ/10x-memo/internal/repository"
)

// QuotaService enforces the daily AI generation ceiling per user.
// Days are UTC calendar dates; the allowance resets (a fresh row starts)
// at UTC midnight.
type QuotaService struct {
	quotaRepo *repository.QuotaRepository
	limit     int

	// now is swappable in tests to simulate the midnight rollover
	now func() time.Time
}

// NewQuotaService creates a quota service with the given daily limit
func NewQuotaService(quotaRepo *repository.QuotaRepository, limit int) *QuotaService {
	return &QuotaService{
		quotaRepo: quotaRepo,
		limit:     limit,
		now:       time.Now,
	}
}

// Consume takes one generation slot from the user's daily allowance.
// The check-and-increment is a single conditional UPDATE, so concurrent
// calls for the last slot resolve to exactly one success. When the ceiling
// is already reached it returns *QuotaExceededError without incrementing.
func (s *QuotaService) Consume(userID string) (*models.QuotaStatus, error) {
	now := s.now().UTC()
	used, consumed, err := s.quotaRepo.ConsumeIfBelow(userID, dayKey(now), s.limit)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, &QuotaExceededError{ResetAt: nextMidnightUTC(now)}
	}
	return s.status(used, now), nil
}

// Peek reports the user's remaining allowance without consuming any of it
func (s *QuotaService) Peek(userID string) (*models.QuotaStatus, error) {
	now := s.now().UTC()
	used, err := s.quotaRepo.GetUsed(userID, dayKey(now))
	if err != nil {
		return nil, err
	}
	return s.status(used, now), nil
}

func (s *QuotaService) status(used int, now time.Time) *models.QuotaStatus {
	remaining := s.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &models.QuotaStatus{
		Used:      used,
		Remaining: remaining,
		Limit:     s.limit,
		ResetAt:   nextMidnightUTC(now),
	}
}

// dayKey formats the UTC calendar date used as the quota row key
func dayKey(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// nextMidnightUTC returns the start of the next UTC day
func nextMidnightUTC(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}
