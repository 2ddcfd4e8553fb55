package handlers

import (
	"time"

	"github.com/RafcikJ/10x-memo/internal/models"
	"github.com/RafcikJ/10x-memo/internal/quiz"
)

// listView is the JSON shape of a word list
type listView struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Source         string     `json:"source"`
	Category       *string    `json:"category"`
	Locked         bool       `json:"locked"`
	FirstTestedAt  *time.Time `json:"first_tested_at"`
	LastScore      *int       `json:"last_score"`
	LastCorrect    *int       `json:"last_correct"`
	LastWrong      *int       `json:"last_wrong"`
	LastTestedAt   *time.Time `json:"last_tested_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// itemView is the JSON shape of a list item
type itemView struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Display  string `json:"display"`
}

// testView is the JSON shape of a completed test record
type testView struct {
	ID          int64     `json:"id"`
	ListID      int64     `json:"list_id"`
	Correct     int       `json:"correct"`
	Wrong       int       `json:"wrong"`
	ItemsCount  int       `json:"items_count"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completed_at"`
}

// sessionView is the JSON shape of a test session snapshot. The correct
// slot is never exposed while the session runs.
type sessionView struct {
	ListID        int64   `json:"list_id"`
	State         string  `json:"state"`
	QuestionIndex int     `json:"question_index"`
	Total         int     `json:"total"`
	OptionA       *string `json:"option_a,omitempty"`
	OptionB       *string `json:"option_b,omitempty"`
	Correct       int     `json:"correct"`
	Wrong         int     `json:"wrong"`
	LastCorrect   *bool   `json:"last_answer_correct,omitempty"`
}

func toListView(l *models.WordList) listView {
	return listView{
		ID:             l.ID,
		Name:           l.Name,
		Source:         string(l.Source),
		Category:       l.Category,
		Locked:         l.IsLocked(),
		FirstTestedAt:  l.FirstTestedAt,
		LastScore:      l.LastScore,
		LastCorrect:    l.LastCorrect,
		LastWrong:      l.LastWrong,
		LastTestedAt:   l.LastTestedAt,
		LastAccessedAt: l.LastAccessedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func toItemViews(items []models.WordListItem) []itemView {
	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = itemView{ID: item.ID, Position: item.Position, Display: item.Display}
	}
	return views
}

func toTestView(t *models.TestRecord) testView {
	return testView{
		ID:          t.ID,
		ListID:      t.ListID,
		Correct:     t.Correct,
		Wrong:       t.Wrong,
		ItemsCount:  t.ItemsCount,
		Score:       t.Score,
		CompletedAt: t.CompletedAt,
	}
}

func toSessionView(s *quiz.Session) sessionView {
	view := sessionView{
		ListID:        s.ListID,
		State:         string(s.State()),
		QuestionIndex: s.Index(),
		Total:         s.Total(),
		Correct:       s.Correct(),
		Wrong:         s.Wrong(),
	}

	if s.State() == quiz.StateQuestion {
		if q := s.Current(); q != nil {
			view.OptionA = &q.OptionA
			view.OptionB = &q.OptionB
		}
	}
	if s.State() == quiz.StateFeedback {
		last := s.LastAnswerCorrect()
		view.LastCorrect = &last
	}
	return view
}
