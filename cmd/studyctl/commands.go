package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jrsteele09/go-study-client/credentials"
	"github.com/jrsteele09/go-study-client/history"
	"github.com/jrsteele09/go-study-client/quiz"
	"github.com/jrsteele09/go-study-client/summaries"
	"github.com/samber/lo"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"register":  registerCmd,
	"login":     loginCmd,
	"profile":   profileCmd,
	"summarize": summarizeCmd,
	"quiz":      quizCmd,
	"history":   historyCmd,
	"status":    statusCmd,
	"logout":    logoutCmd,
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError("%s: %v", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return usageError("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return nil
}

func requireSignIn(a *app) error {
	if !a.client.Session().SignedIn() {
		return errNotSignedIn
	}
	return nil
}

func registerCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "register")
	email := fs.String("email", "", "email address")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		return usageError("register: -email and -name are required")
	}

	reg, err := a.client.Register(ctx, *email, *name, *phone)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, successStyle.Render(symbolSuccess+" "+reg.Message))
	fmt.Fprintln(a.stdout, dimStyle.Render("user id "+reg.UserID))
	return nil
}

func loginCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "login")
	email := fs.String("email", "", "email address")
	code := fs.String("code", "", "one-time code from an earlier request; skips sending a new one")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *email == "" {
		return usageError("login: -email is required")
	}

	if *code == "" {
		ack, err := a.client.RequestCode(ctx, *email)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s (expires in %s)\n", ack.Message, time.Duration(ack.ExpiresIn)*time.Second)

		entered, err := promptSecret(a.stdin, a.stdout, "Code: ")
		if err != nil {
			return err
		}
		*code = entered
	}

	verification, err := a.client.VerifyCode(ctx, *email, *code)
	if err != nil {
		return err
	}
	who := lo.CoalesceOrEmpty(verification.User.FullName, verification.User.Email)
	fmt.Fprintln(a.stdout, successStyle.Render(symbolSuccess+" signed in as "+who))
	return nil
}

func profileCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "profile")
	raw := fs.Bool("json", false, "print the profile as returned by the API")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := requireSignIn(a); err != nil {
		return err
	}

	profile, err := a.client.GetProfile(ctx)
	if err != nil {
		return err
	}
	if *raw {
		fmt.Fprintln(a.stdout, string(profile.Raw))
		return nil
	}

	rows := [][2]string{
		{"Name", profile.FullName},
		{"Email", profile.Email},
		{"Phone", lo.CoalesceOrEmpty(profile.Phone, "-")},
		{"Verified", fmt.Sprint(profile.Verified)},
		{"User ID", profile.ID},
		{"Member since", relativeTime(profile.CreatedAt.Time)},
		{"Last login", relativeTime(profile.LastLogin.Time)},
	}
	fmt.Fprint(a.stdout, renderTable(rows))
	return nil
}

func summarizeCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "summarize")
	text := fs.String("text", "", "text to summarise")
	file := fs.String("file", "", "read the text to summarise from a file")
	pdfPath := fs.String("pdf", "", "PDF document to summarise")
	youtube := fs.String("youtube", "", "YouTube video URL")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	chosen := lo.Filter([]string{*text, *file, *pdfPath, *youtube}, func(s string, _ int) bool { return s != "" })
	if len(chosen) != 1 {
		return usageError("summarize: exactly one of -text, -file, -pdf or -youtube is required")
	}
	if err := requireSignIn(a); err != nil {
		return err
	}

	source := summaries.Source{Text: *text, YouTubeURL: *youtube}
	switch {
	case *file != "":
		data, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		source.Text = string(data)
	case *pdfPath != "":
		f, err := os.Open(*pdfPath)
		if err != nil {
			return err
		}
		defer f.Close()
		source.PDF = f
		source.PDFName = filepath.Base(*pdfPath)
	}

	kind, err := source.Kind()
	if err != nil {
		return usageError("summarize: %v", err)
	}
	summary, err := a.client.Summarize(ctx, source)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, summary.Summary)

	label := lo.CoalesceOrEmpty(source.YouTubeURL, source.PDFName, source.Text)
	a.recordSummary(kind, label, summary.Summary)
	return nil
}

func (a *app) recordSummary(kind summaries.Kind, source, summary string) {
	m, err := a.History()
	if err != nil {
		a.logger.Warn().Err(err).Msg("history unavailable")
		return
	}
	if _, err := m.RecordSummary(a.userEmail(), kind, source, summary); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record summary")
	}
}

// recordQuiz saves the quiz to local history, returning nil when history is unavailable
func (a *app) recordQuiz(sourceText string, questions []quiz.Question) *history.QuizEntry {
	m, err := a.History()
	if err != nil {
		a.logger.Warn().Err(err).Msg("history unavailable")
		return nil
	}
	entry, err := m.RecordQuiz(a.userEmail(), sourceText, questions)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to record quiz")
		return nil
	}
	return entry
}

func (a *app) recordScore(entry *history.QuizEntry, correct int) {
	if entry == nil || a.history == nil {
		return
	}
	if err := a.history.RecordScore(entry, correct); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record score")
	}
}

func quizCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "quiz")
	text := fs.String("text", "", "text to generate questions from")
	last := fs.Bool("last", false, "use the most recent summary from local history")
	take := fs.Bool("take", false, "answer the questions interactively")
	pdfOut := fs.String("pdf", "", "also export the quiz as a PDF to this path")
	title := fs.String("title", "Quiz", "title for the PDF export")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if (*text == "") == !*last {
		return usageError("quiz: exactly one of -text or -last is required")
	}
	if err := requireSignIn(a); err != nil {
		return err
	}

	if *last {
		m, err := a.History()
		if err != nil {
			return err
		}
		entry, err := m.LatestSummary(a.userEmail())
		if err != nil {
			return err
		}
		if entry == nil {
			return usageError("quiz: no summaries in local history, run `studyctl summarize` first")
		}
		*text = entry.Summary
	}

	questions, err := a.client.GenerateQuiz(ctx, *text)
	if err != nil {
		return err
	}
	entry := a.recordQuiz(*text, questions)

	if *take {
		correct, err := takeQuiz(a, questions)
		if err != nil {
			return err
		}
		a.recordScore(entry, correct)
	} else {
		fmt.Fprint(a.stdout, renderQuestions(questions, true))
	}

	if *pdfOut != "" {
		return exportQuiz(ctx, a, *title, questions, *pdfOut)
	}
	return nil
}

func takeQuiz(a *app, questions []quiz.Question) (int, error) {
	attempt := quiz.NewAttempt(questions)
	scanner := bufio.NewScanner(a.stdin)

	for i, q := range questions {
		fmt.Fprint(a.stdout, renderQuestion(i, q))
		for {
			fmt.Fprint(a.stdout, "Answer: ")
			if !scanner.Scan() {
				fmt.Fprintln(a.stdout)
				return reportAttempt(a, attempt), scanner.Err()
			}
			choice, err := quiz.ParseOptionLabel(scanner.Text())
			if err == nil {
				err = attempt.Answer(i, choice)
			}
			if err != nil {
				fmt.Fprintln(a.stdout, errorStyle.Render(err.Error()))
				continue
			}
			break
		}
	}
	return reportAttempt(a, attempt), nil
}

func reportAttempt(a *app, attempt *quiz.Attempt) int {
	fmt.Fprint(a.stdout, renderResults(attempt.Results()))
	correct, total := attempt.Score()
	fmt.Fprintln(a.stdout, headerStyle.Render(fmt.Sprintf("Score: %d/%d", correct, total)))
	return correct
}

// exportQuiz writes the PDF through a buffer so a failed download leaves no partial file
func exportQuiz(ctx context.Context, a *app, title string, questions []quiz.Question, path string) error {
	var buf bytes.Buffer
	export, err := a.client.DownloadQuizPDF(ctx, title, questions, &buf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s wrote %s (%s, suggested name %s)\n",
		successStyle.Render(symbolSuccess), path, humanize.Bytes(uint64(export.Bytes)), export.Filename)
	return nil
}

func historyCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "history")
	local := fs.Bool("local", false, "list the history stored on this machine")
	quizzes := fs.Bool("quizzes", false, "list quizzes instead of summaries")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *local {
		m, err := a.History()
		if err != nil {
			return err
		}
		if *quizzes {
			entries, err := m.RecentQuizzes(a.userEmail(), quiz.HistoryLimit)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, renderQuizHistory(history.QuizRecords(entries)))
			return nil
		}
		entries, err := m.RecentSummaries(a.userEmail(), summaries.HistoryLimit)
		if err != nil {
			return err
		}
		fmt.Fprint(a.stdout, renderSummaryHistory(history.SummaryRecords(entries)))
		return nil
	}

	if err := requireSignIn(a); err != nil {
		return err
	}
	if *quizzes {
		records, err := a.client.ListQuizzes(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(a.stdout, renderQuizHistory(records))
		return nil
	}
	records, err := a.client.ListSummaries(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, renderSummaryHistory(records))
	return nil
}

func statusCmd(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "status")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cred := a.client.Session().Credential()
	if cred.IsZero() {
		fmt.Fprintln(a.stdout, dimStyle.Render("signed out"))
		fmt.Fprint(a.stdout, renderTable([][2]string{{"API", a.client.BaseURL()}}))
		return nil
	}

	rows := [][2]string{{"API", a.client.BaseURL()}}
	if claims, err := cred.Claims(); err == nil {
		rows = append(rows,
			[2]string{"Email", lo.CoalesceOrEmpty(claims.Email, "-")},
			[2]string{"User ID", claims.UserID},
			[2]string{"Access token", tokenExpiry(claims)},
		)
	} else {
		rows = append(rows, [2]string{"Access token", "unreadable: " + err.Error()})
	}
	if refresh, err := credentials.ParseClaims(cred.RefreshToken); err == nil {
		rows = append(rows, [2]string{"Refresh token", tokenExpiry(refresh)})
	} else {
		rows = append(rows, [2]string{"Refresh token", "none"})
	}
	rows = append(rows, [2]string{"Stored in", a.credentialsPath})

	fmt.Fprint(a.stdout, renderTable(rows))
	return nil
}

func tokenExpiry(claims *credentials.Claims) string {
	if claims.ExpiresAt.IsZero() {
		return "no expiry"
	}
	if claims.Expired(time.Now()) {
		return warnStyle.Render("expired " + humanize.Time(claims.ExpiresAt))
	}
	return "expires " + humanize.Time(claims.ExpiresAt)
}

func logoutCmd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "logout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	a.client.Logout(ctx)
	fmt.Fprintln(a.stdout, successStyle.Render(symbolSuccess+" signed out"))
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
