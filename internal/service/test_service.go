package service

import (
	"math/rand"
	"time"

	"github.com/RafcikJ/10x-memo/internal/models"
	"github.com/RafcikJ/10x-memo/internal/quiz"
	"github.com/RafcikJ/10x-memo/internal/repository"
)

// TestService runs binary-choice tests over a list and records their
// outcomes. Sessions live in the injected store until completion is
// persisted; persistence failures keep the completed session around so the
// caller can retry without the user retaking the quiz.
type TestService struct {
	listRepo *repository.ListRepository
	testRepo *repository.TestRepository
	sessions *quiz.SessionStore
	minItems int

	// newRand builds the random source for question generation;
	// swappable in tests for deterministic question sets
	newRand func() *rand.Rand
}

// NewTestService creates a test service requiring minItems to start a test
func NewTestService(listRepo *repository.ListRepository, testRepo *repository.TestRepository, sessions *quiz.SessionStore, minItems int) *TestService {
	return &TestService{
		listRepo: listRepo,
		testRepo: testRepo,
		sessions: sessions,
		minItems: minItems,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// StartTest builds a question set from the list's items and opens a new
// session for the user, replacing any abandoned one. Lists below the
// minimum item count are rejected before any session exists.
func (s *TestService) StartTest(listID int64, userID string) (*quiz.Session, error) {
	list, err := s.listRepo.GetListByID(listID, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}

	items, err := s.listRepo.GetListItems(listID)
	if err != nil {
		return nil, err
	}
	if len(items) < s.minItems {
		return nil, ErrInsufficientItems
	}

	questions := quiz.BuildQuestions(items, s.newRand())
	session := quiz.NewSession(listID, questions)
	s.sessions.Put(userID, session)
	return session, nil
}

// CurrentSession returns the user's active session, or ErrNoActiveSession
func (s *TestService) CurrentSession(userID string) (*quiz.Session, error) {
	session := s.sessions.Get(userID)
	if session == nil {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

// SubmitAnswer forwards an A/B choice to the user's session
func (s *TestService) SubmitAnswer(userID string, isSlotA bool) (*quiz.Session, bool, error) {
	session := s.sessions.Get(userID)
	if session == nil {
		return nil, false, ErrNoActiveSession
	}

	isCorrect, err := session.SubmitAnswer(isSlotA)
	if err != nil {
		return nil, false, err
	}
	return session, isCorrect, nil
}

// AdvanceFeedback ends the feedback flash; when the session reaches its
// terminal state the result is persisted immediately. A persistence failure
// is returned alongside the session, whose score and counts stay intact for
// a later CompleteTest retry.
func (s *TestService) AdvanceFeedback(userID string) (*quiz.Session, *models.TestRecord, error) {
	session := s.sessions.Get(userID)
	if session == nil {
		return nil, nil, ErrNoActiveSession
	}

	if err := session.Advance(); err != nil {
		return nil, nil, err
	}

	if !session.Completed() {
		return session, nil, nil
	}

	record, err := s.recordCompletion(userID, session)
	if err != nil {
		return session, nil, err
	}
	return session, record, nil
}

// CompleteTest retries persisting an already-completed session
func (s *TestService) CompleteTest(userID string) (*models.TestRecord, error) {
	session := s.sessions.Get(userID)
	if session == nil {
		return nil, ErrNoActiveSession
	}
	if !session.Completed() {
		return nil, ErrSessionNotCompleted
	}
	return s.recordCompletion(userID, session)
}

// recordCompletion persists the test record and drops the session from the
// store only after the write succeeded.
func (s *TestService) recordCompletion(userID string, session *quiz.Session) (*models.TestRecord, error) {
	record, err := s.testRepo.RecordCompletion(
		session.ListID,
		session.Correct(),
		session.Wrong(),
		session.Total(),
		session.Score(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	s.sessions.Delete(userID)
	return record, nil
}

// GetListTests returns the immutable test history of a user's list
func (s *TestService) GetListTests(listID int64, userID string) ([]models.TestRecord, error) {
	list, err := s.listRepo.GetListByID(listID, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	return s.testRepo.GetListTests(listID)
}
