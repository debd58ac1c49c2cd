package quiz

import (
	"fmt"
)

// Attempt records a user's answers to a set of questions
type Attempt struct {
	questions []Question
	answers   []int // -1 until answered
}

// Result is the outcome of one question in an attempt
type Result struct {
	Index       int
	Question    Question
	Chosen      int // -1 when unanswered
	Correct     bool
	Explanation string
}

func NewAttempt(questions []Question) *Attempt {
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = -1
	}
	return &Attempt{questions: questions, answers: answers}
}

// Answer records choice for question i, replacing any earlier answer
func (a *Attempt) Answer(i, choice int) error {
	if i < 0 || i >= len(a.questions) {
		return fmt.Errorf("question %d does not exist", i+1)
	}
	if choice < 0 || choice >= len(a.questions[i].Options) {
		return fmt.Errorf("question %d has no option %s", i+1, OptionLabel(choice))
	}
	a.answers[i] = choice
	return nil
}

// Answered reports how many questions have an answer
func (a *Attempt) Answered() int {
	n := 0
	for _, c := range a.answers {
		if c >= 0 {
			n++
		}
	}
	return n
}

// Score returns the number of correct answers and the number of questions
func (a *Attempt) Score() (correct, total int) {
	for _, r := range a.Results() {
		if r.Correct {
			correct++
		}
	}
	return correct, len(a.questions)
}

func (a *Attempt) Results() []Result {
	results := make([]Result, len(a.questions))
	for i, q := range a.questions {
		results[i] = Result{
			Index:       i,
			Question:    q,
			Chosen:      a.answers[i],
			Correct:     a.answers[i] >= 0 && a.answers[i] == q.AnswerIndex,
			Explanation: q.Explanation,
		}
	}
	return results
}
