package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jrsteele09/go-study-client/quiz"
	"github.com/jrsteele09/go-study-client/summaries"
	"github.com/samber/lo"
)

const (
	colorCyan   = lipgloss.Color("12")
	colorYellow = lipgloss.Color("11")
	colorGreen  = lipgloss.Color("10")
	colorRed    = lipgloss.Color("9")
	colorGray   = lipgloss.Color("8")
)

const (
	symbolSuccess = "✓"
	symbolError   = "✗"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	dimStyle     = lipgloss.NewStyle().Foreground(colorGray)
)

func renderTable(rows [][2]string) string {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(labelStyle.Render(row[0]))
		sb.WriteString(row[1])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func renderQuestion(i int, q quiz.Question) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("Q%d. %s", i+1, q.Question)))
	sb.WriteByte('\n')
	for j, opt := range q.Options {
		fmt.Fprintf(&sb, "   %s. %s\n", quiz.OptionLabel(j), opt)
	}
	return sb.String()
}

func renderQuestions(questions []quiz.Question, withAnswers bool) string {
	var sb strings.Builder
	for i, q := range questions {
		sb.WriteString(renderQuestion(i, q))
		if withAnswers {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("   answer: %s. %s", quiz.OptionLabel(q.AnswerIndex), q.CorrectOption())))
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func renderResults(results []quiz.Result) string {
	var sb strings.Builder
	for _, r := range results {
		mark := successStyle.Render(symbolSuccess)
		if !r.Correct {
			mark = errorStyle.Render(symbolError)
		}
		chosen := "no answer"
		if r.Chosen >= 0 {
			chosen = quiz.OptionLabel(r.Chosen)
		}
		fmt.Fprintf(&sb, "%s Q%d: you chose %s, answer %s. %s\n",
			mark, r.Index+1, chosen, quiz.OptionLabel(r.Question.AnswerIndex), r.Question.CorrectOption())
		if !r.Correct && r.Explanation != "" {
			sb.WriteString(dimStyle.Render("   " + r.Explanation))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func renderSummaryHistory(records []summaries.SummaryRecord) string {
	if len(records) == 0 {
		return dimStyle.Render("no summaries yet") + "\n"
	}
	lines := lo.Map(records, func(r summaries.SummaryRecord, _ int) string {
		return fmt.Sprintf("%s %s %s",
			dimStyle.Render(fmt.Sprintf("%-14s", relativeTime(r.CreatedAt.Time))),
			headerStyle.Render(fmt.Sprintf("%-8s", r.Type)),
			r.Label())
	})
	return strings.Join(lines, "\n") + "\n"
}

func renderQuizHistory(records []quiz.QuizRecord) string {
	if len(records) == 0 {
		return dimStyle.Render("no quizzes yet") + "\n"
	}
	lines := lo.Map(records, func(r quiz.QuizRecord, _ int) string {
		source := summaries.Truncate(strings.Join(strings.Fields(r.SourceText), " "), 60)
		return fmt.Sprintf("%s %s %s",
			dimStyle.Render(fmt.Sprintf("%-14s", relativeTime(r.CreatedAt.Time))),
			headerStyle.Render(fmt.Sprintf("%d questions", len(r.Questions))),
			source)
	})
	return strings.Join(lines, "\n") + "\n"
}
