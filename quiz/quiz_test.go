package quiz_test

import (
	"testing"

	"github.com/jrsteele09/go-study-client/quiz"
	quizfakerepo "github.com/jrsteele09/go-study-client/quiz/repofake"
	"github.com/stretchr/testify/require"
)

func sampleQuestions() []quiz.Question {
	return []quiz.Question{
		{Question: "2+2?", Options: []string{"3", "4", "5", "6"}, AnswerIndex: 1, Explanation: "basic arithmetic"},
		{Question: "Capital of France?", Options: []string{"Paris", "Rome", "Madrid", "Berlin"}, AnswerIndex: 0},
	}
}

func TestQuestion_Validate(t *testing.T) {
	for _, q := range sampleQuestions() {
		require.NoError(t, q.Validate())
	}
	require.Error(t, quiz.Question{Options: []string{"a", "b"}}.Validate())
	require.Error(t, quiz.Question{Question: "q", Options: []string{"a"}}.Validate())
	require.Error(t, quiz.Question{Question: "q", Options: []string{"a", "b"}, AnswerIndex: 2}.Validate())
}

func TestOptionLabels(t *testing.T) {
	require.Equal(t, "A", quiz.OptionLabel(0))
	require.Equal(t, "D", quiz.OptionLabel(3))

	for label, want := range map[string]int{"a": 0, "C": 2, "2": 1, " d ": 3} {
		got, err := quiz.ParseOptionLabel(label)
		require.NoError(t, err, label)
		require.Equal(t, want, got, label)
	}
	for _, bad := range []string{"", "0", "?", "ab"} {
		_, err := quiz.ParseOptionLabel(bad)
		require.Error(t, err, bad)
	}
}

func TestAttempt(t *testing.T) {
	attempt := quiz.NewAttempt(sampleQuestions())

	require.NoError(t, attempt.Answer(0, 1))
	require.NoError(t, attempt.Answer(1, 2))
	require.Error(t, attempt.Answer(2, 0), "no such question")
	require.Error(t, attempt.Answer(0, 4), "no such option")
	require.Equal(t, 2, attempt.Answered())

	correct, total := attempt.Score()
	require.Equal(t, 1, correct)
	require.Equal(t, 2, total)

	results := attempt.Results()
	require.True(t, results[0].Correct)
	require.Equal(t, "basic arithmetic", results[0].Explanation)
	require.False(t, results[1].Correct)

	t.Run("unanswered questions are wrong", func(t *testing.T) {
		fresh := quiz.NewAttempt(sampleQuestions())
		correct, _ := fresh.Score()
		require.Zero(t, correct)
		require.Equal(t, -1, fresh.Results()[0].Chosen)
	})
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		title       string
		want        string
	}{
		{"quoted", `attachment; filename="Week 1.pdf"`, "ignored", "Week 1.pdf"},
		{"unquoted with spaces", "attachment; filename=Week 1.pdf", "ignored", "Week 1.pdf"},
		{"path stripped", `attachment; filename="../../etc/passwd.pdf"`, "t", "passwd.pdf"},
		{"missing header", "", "Biology: Cells", "Biology_ Cells.pdf"},
		{"no filename", "inline", "", "quiz.pdf"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, quiz.ExportFilename(tc.disposition, tc.title))
		})
	}
}

func TestFakeQuizRepo(t *testing.T) {
	repo := quizfakerepo.NewFakeQuizRepo()
	require.NoError(t, repo.Add(&quiz.QuizRecord{UserID: "u1", SourceText: "first", Questions: sampleQuestions()}))
	require.NoError(t, repo.Add(&quiz.QuizRecord{UserID: "u1", SourceText: "second", Questions: sampleQuestions()}))

	records, err := repo.ListByUser("u1", quiz.HistoryLimit)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "second", records[0].SourceText, "insertion order breaks timestamp ties newest first")
}
