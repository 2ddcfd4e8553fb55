package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafcikJ/10x-memo/internal/quiz"
)

func sessionFixture(t *testing.T) *quiz.Session {
	t.Helper()
	questions := []quiz.Question{
		{CorrectAnswer: "Cat", WrongAnswer: "Dog", OptionA: "Cat", OptionB: "Dog", CorrectIsA: true},
		{CorrectAnswer: "Dog", WrongAnswer: "Cat", OptionA: "Cat", OptionB: "Dog", CorrectIsA: false},
	}
	return quiz.NewSession(7, questions)
}

func TestSessionViewQuestionState(t *testing.T) {
	view := toSessionView(sessionFixture(t))

	assert.Equal(t, "question", view.State)
	assert.Equal(t, 0, view.QuestionIndex)
	assert.Equal(t, 2, view.Total)
	require.NotNil(t, view.OptionA)
	require.NotNil(t, view.OptionB)
	assert.Equal(t, "Cat", *view.OptionA)
	assert.Equal(t, "Dog", *view.OptionB)
	assert.Nil(t, view.LastCorrect)
}

func TestSessionViewFeedbackState(t *testing.T) {
	s := sessionFixture(t)
	_, err := s.SubmitAnswer(true)
	require.NoError(t, err)

	view := toSessionView(s)

	assert.Equal(t, "feedback", view.State)
	assert.Nil(t, view.OptionA, "options are hidden during feedback")
	assert.Nil(t, view.OptionB)
	require.NotNil(t, view.LastCorrect)
	assert.True(t, *view.LastCorrect)
	assert.Equal(t, 1, view.Correct)
}

func TestSessionViewCompletedState(t *testing.T) {
	s := sessionFixture(t)
	for i := 0; i < 2; i++ {
		_, err := s.SubmitAnswer(true)
		require.NoError(t, err)
		require.NoError(t, s.Advance())
	}

	view := toSessionView(s)

	assert.Equal(t, "completed", view.State)
	assert.Nil(t, view.OptionA)
	assert.Nil(t, view.OptionB)
	assert.Nil(t, view.LastCorrect)
	assert.Equal(t, 1, view.Correct)
	assert.Equal(t, 1, view.Wrong)
}

// The serialized session must never reveal which slot is correct
func TestSessionViewHidesCorrectSlot(t *testing.T) {
	payload, err := json.Marshal(toSessionView(sessionFixture(t)))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	for _, forbidden := range []string{"correct_is_a", "correct_answer", "wrong_answer"} {
		_, present := decoded[forbidden]
		assert.False(t, present, "field %q must not be serialized", forbidden)
	}
}
