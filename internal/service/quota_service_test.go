package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafcikJ/10x-memo/internal/repository"
)

func newQuotaService(t *testing.T, limit int) *QuotaService {
	t.Helper()
	db := newTestDB(t)
	return NewQuotaService(repository.NewQuotaRepository(db), limit)
}

func TestQuotaConsumeCountsDown(t *testing.T) {
	svc := newQuotaService(t, 5)

	for want := 4; want >= 0; want-- {
		status, err := svc.Consume(testUserID)
		require.NoError(t, err)
		assert.Equal(t, want, status.Remaining)
		assert.Equal(t, 5-want, status.Used)
		assert.Equal(t, 5, status.Limit)
	}
}

func TestQuotaSixthConsumeFailsWithoutIncrement(t *testing.T) {
	svc := newQuotaService(t, 5)

	for i := 0; i < 5; i++ {
		_, err := svc.Consume(testUserID)
		require.NoError(t, err)
	}

	_, err := svc.Consume(testUserID)
	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.False(t, quotaErr.ResetAt.IsZero())

	status, err := svc.Peek(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 5, status.Used)
	assert.Equal(t, 0, status.Remaining)
}

func TestQuotaResetsAtUTCMidnight(t *testing.T) {
	svc := newQuotaService(t, 2)

	day1 := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
	svc.now = func() time.Time { return day1 }

	_, err := svc.Consume(testUserID)
	require.NoError(t, err)
	_, err = svc.Consume(testUserID)
	require.NoError(t, err)
	_, err = svc.Consume(testUserID)

	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), quotaErr.ResetAt)

	// Ten minutes later it is a new UTC day and a fresh allowance
	svc.now = func() time.Time { return day1.Add(10 * time.Minute) }

	status, err := svc.Consume(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Used)
	assert.Equal(t, 1, status.Remaining)
}

func TestQuotaUsersAreIndependent(t *testing.T) {
	svc := newQuotaService(t, 1)
	otherUser := "3f6d5b1a-0000-4000-8000-000000000002"

	_, err := svc.Consume(testUserID)
	require.NoError(t, err)

	status, err := svc.Consume(otherUser)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Used)
}

func TestQuotaLastSlotRace(t *testing.T) {
	svc := newQuotaService(t, 5)

	for i := 0; i < 4; i++ {
		_, err := svc.Consume(testUserID)
		require.NoError(t, err)
	}

	// Two concurrent attempts at the final slot: exactly one may win
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Consume(testUserID)
		}(i)
	}
	wg.Wait()

	var successes, exceeded int
	for _, err := range results {
		var quotaErr *QuotaExceededError
		switch {
		case err == nil:
			successes++
		case errors.As(err, &quotaErr):
			exceeded++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, exceeded)

	status, err := svc.Peek(testUserID)
	require.NoError(t, err)
	assert.Equal(t, 5, status.Used)
}

func TestQuotaPeekDoesNotConsume(t *testing.T) {
	svc := newQuotaService(t, 5)

	for i := 0; i < 3; i++ {
		status, err := svc.Peek(testUserID)
		require.NoError(t, err)
		assert.Equal(t, 0, status.Used)
		assert.Equal(t, 5, status.Remaining)
	}
}
