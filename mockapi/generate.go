package mockapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jrsteele09/go-study-client/quiz"
	"github.com/samber/lo"
)

const (
	maxQuizQuestions = 5
	minQuizQuestions = 3
	optionsPerQuiz   = 4
	summaryPoints    = 5
)

var errTooFewQuestions = errors.New("too few valid questions")

// summariseText stands in for the language model: it lists the opening
// sentences of the text as Markdown bullet points.
func summariseText(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return "## Summary\n\n_No content._\n"
	}

	var sb strings.Builder
	sb.WriteString("## Summary\n\n")
	for _, sentence := range lo.Slice(sentences, 0, summaryPoints) {
		fmt.Fprintf(&sb, "- %s\n", sentence)
	}
	fmt.Fprintf(&sb, "\n_%d sentences, %d words._\n", len(sentences), len(strings.Fields(text)))
	return sb.String()
}

func summariseVideo(videoID string) string {
	return fmt.Sprintf("## Summary\n\n- Transcript summary for video `%s`.\n", videoID)
}

// generateQuestions builds fill-in-the-blank questions from the sentences of
// text, blanking the longest word and drawing distractors from the others.
func generateQuestions(text string) ([]quiz.Question, error) {
	sentences := splitSentences(text)
	keywords := lo.Uniq(lo.FilterMap(sentences, func(sentence string, _ int) (string, bool) {
		word := longestWord(sentence)
		return word, len(word) >= 4
	}))

	var questions []quiz.Question
	for _, sentence := range sentences {
		if len(questions) == maxQuizQuestions {
			break
		}
		answer := longestWord(sentence)
		if len(answer) < 4 || len(strings.Fields(sentence)) < 4 {
			continue
		}

		distractors := lo.Filter(keywords, func(k string, _ int) bool { return !strings.EqualFold(k, answer) })
		distractors = lo.Slice(distractors, 0, optionsPerQuiz-1)
		for i := len(distractors); i < optionsPerQuiz-1; i++ {
			distractors = append(distractors, fmt.Sprintf("Option %d", i+2))
		}

		answerIndex := len(questions) % optionsPerQuiz
		options := make([]string, 0, optionsPerQuiz)
		options = append(options, distractors[:answerIndex]...)
		options = append(options, answer)
		options = append(options, distractors[answerIndex:]...)

		q := quiz.Question{
			Question:    "Fill in the blank: " + strings.Replace(sentence, answer, "_____", 1),
			Options:     options,
			AnswerIndex: answerIndex,
			Explanation: "The correct answer is: " + answer,
		}
		if q.Validate() != nil {
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) < minQuizQuestions {
		return nil, errTooFewQuestions
	}
	return questions, nil
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	return lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.Join(strings.Fields(part), " ")
		return part, part != ""
	})
}

func longestWord(sentence string) string {
	words := lo.Map(strings.Fields(sentence), func(w string, _ int) string {
		return strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	})
	sort.SliceStable(words, func(i, j int) bool { return len(words[i]) > len(words[j]) })
	if len(words) == 0 {
		return ""
	}
	return words[0]
}
