package quiz

import (
	"errors"
	"sync"
	"time"
)

// State is the phase of a running test session
type State string

const (
	// StateQuestion means the session is waiting for an A/B choice
	StateQuestion State = "question"
	// StateFeedback means the last answer's correct/incorrect flash is showing
	StateFeedback State = "feedback"
	// StateCompleted is terminal; no further input is accepted
	StateCompleted State = "completed"
)

var (
	// ErrNotAwaitingAnswer is returned when an answer arrives outside the Question state
	ErrNotAwaitingAnswer = errors.New("quiz: session is not awaiting an answer")
	// ErrNotInFeedback is returned when Advance is called outside the Feedback state
	ErrNotInFeedback = errors.New("quiz: session is not showing feedback")
)

// Session drives one user through a fixed question set, one question at a
// time: Question -> Feedback -> Question ... -> Completed. The index never
// moves backwards and a question can only be answered once.
//
// Sessions are shared across requests (two tabs of the same user hit the
// same instance), so every state transition and read goes through mu.
// ListID, Questions and StartedAt are immutable after construction.
type Session struct {
	ListID    int64
	Questions []Question
	StartedAt time.Time

	mu          sync.Mutex
	state       State
	index       int
	correct     int
	wrong       int
	lastCorrect bool
}

// NewSession creates a session positioned at the first question.
// The caller enforces the minimum item count before building questions.
func NewSession(listID int64, questions []Question) *Session {
	return &Session{
		ListID:    listID,
		Questions: questions,
		StartedAt: time.Now(),
		state:     StateQuestion,
	}
}

// State returns the session's current phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index returns the zero-based index of the current question
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the question awaiting an answer, or nil once completed
func (s *Session) Current() *Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.index]
}

// Correct returns the number of correctly answered questions so far
func (s *Session) Correct() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.correct
}

// Wrong returns the number of incorrectly answered questions so far
func (s *Session) Wrong() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrong
}

// Total returns the number of questions in the session
func (s *Session) Total() int {
	return len(s.Questions)
}

// LastAnswerCorrect reports the outcome of the most recent answer,
// for the feedback flash.
func (s *Session) LastAnswerCorrect() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCorrect
}

// SubmitAnswer records an A/B choice for the current question and moves the
// session into Feedback. Input outside the Question state is rejected, which
// covers double answers, answers during the feedback flash, and two
// simultaneous answers racing for the same question.
func (s *Session) SubmitAnswer(isSlotA bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateQuestion {
		return false, ErrNotAwaitingAnswer
	}

	q := s.Questions[s.index]
	isCorrect := isSlotA == q.CorrectIsA
	if isCorrect {
		s.correct++
	} else {
		s.wrong++
	}

	s.lastCorrect = isCorrect
	s.state = StateFeedback
	return isCorrect, nil
}

// Advance ends the feedback phase: to the next question if any remain,
// otherwise to Completed.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFeedback {
		return ErrNotInFeedback
	}

	s.index++
	if s.index < len(s.Questions) {
		s.state = StateQuestion
	} else {
		s.state = StateCompleted
	}
	return nil
}

// Completed reports whether the session reached its terminal state
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateCompleted
}

// Score returns the integer percentage floor(100 * correct / total).
// Only meaningful once the session is completed; total is never zero
// because sessions are built from at least the minimum item count.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 100 * s.correct / len(s.Questions)
}
