package quiz

import (
	"math/rand"

	"github.com/RafcikJ/10x-memo/internal/models"
)

// Question is one binary-choice prompt: the display text of one list item
// paired with a distractor drawn from another item, dealt into slots A and B.
type Question struct {
	CorrectAnswer string
	WrongAnswer   string
	OptionA       string
	OptionB       string
	CorrectIsA    bool
}

// BuildQuestions derives one question per item, in the list's stored order.
// Questions are presented with a generic "first/next item of the list"
// prompt, so the stored order is the quiz order; the randomness is in the
// distractor choice and the A/B slot assignment only.
//
// The caller must ensure len(items) >= 2 (the test-start gate requires 5);
// rng is injected so question generation is reproducible under a fixed seed.
func BuildQuestions(items []models.WordListItem, rng *rand.Rand) []Question {
	questions := make([]Question, 0, len(items))

	for i, item := range items {
		// Pick a distractor uniformly from the other items
		j := rng.Intn(len(items) - 1)
		if j >= i {
			j++
		}
		wrong := items[j].Display

		// Fair coin decides which slot holds the correct answer
		correctIsA := rng.Intn(2) == 0

		q := Question{
			CorrectAnswer: item.Display,
			WrongAnswer:   wrong,
			CorrectIsA:    correctIsA,
		}
		if correctIsA {
			q.OptionA = item.Display
			q.OptionB = wrong
		} else {
			q.OptionA = wrong
			q.OptionB = item.Display
		}
		questions = append(questions, q)
	}

	return questions
}
