package client

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-study-client/quiz"
	"github.com/jrsteele09/go-study-client/summaries"
)

// ListSummaries returns the user's summaries, newest first
func (c *Client) ListSummaries(ctx context.Context) ([]summaries.SummaryRecord, error) {
	req := request{method: http.MethodGet, path: summariesPath, authenticated: true}

	var out summaries.List
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrHistory, err)
	}
	return out.Summaries, nil
}

// ListQuizzes returns the user's quizzes, newest first
func (c *Client) ListQuizzes(ctx context.Context) ([]quiz.QuizRecord, error) {
	req := request{method: http.MethodGet, path: quizzesPath, authenticated: true}

	var out quiz.List
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrHistory, err)
	}
	return out.Quizzes, nil
}
