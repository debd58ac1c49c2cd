package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-study-client/quiz"
)

type quizRequest struct {
	Text string `json:"text"`
}

// GenerateQuiz asks the backend for multiple-choice questions about text
func (c *Client) GenerateQuiz(ctx context.Context, text string) ([]quiz.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, opError(ErrQuizGeneration, &ValidationError{Field: "text", Reason: "text is required"})
	}

	req, err := jsonRequest(http.MethodPost, quizPath, quizRequest{Text: text}, true)
	if err != nil {
		return nil, opError(ErrQuizGeneration, err)
	}

	var out quiz.Questions
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrQuizGeneration, err)
	}
	return out.Questions, nil
}

// DownloadQuizPDF renders questions as a PDF on the backend and streams it to w.
// The export endpoint is public, so no token is sent and no refresh is attempted.
// Failures are logged before they are returned.
func (c *Client) DownloadQuizPDF(ctx context.Context, title string, questions []quiz.Question, w io.Writer) (*quiz.Export, error) {
	export, err := c.downloadQuizPDF(ctx, title, questions, w)
	if err != nil {
		c.logger.Err(err).Str("title", title).Msg("quiz PDF export failed")
		return nil, opError(ErrPdfExport, err)
	}
	return export, nil
}

func (c *Client) downloadQuizPDF(ctx context.Context, title string, questions []quiz.Question, w io.Writer) (*quiz.Export, error) {
	switch {
	case strings.TrimSpace(title) == "":
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	case len(questions) == 0:
		return nil, &ValidationError{Field: "quiz_data", Reason: "at least one question is required"}
	case w == nil:
		return nil, &ValidationError{Field: "writer", Reason: "destination is required"}
	}

	req, err := jsonRequest(http.MethodPost, downloadQuizPath, quiz.DownloadRequest{Title: title, QuizData: questions}, false)
	if err != nil {
		return nil, err
	}

	resp, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("writing PDF after %d bytes: %w", n, err)
	}
	return &quiz.Export{
		Filename: quiz.ExportFilename(resp.Header.Get("Content-Disposition"), title),
		Bytes:    n,
	}, nil
}
