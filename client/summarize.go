package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/jrsteele09/go-study-client/summaries"
)

type summarizeRequest struct {
	Text       string `json:"text,omitempty"`
	YouTubeURL string `json:"youtube_url,omitempty"`
}

// SummarizeText returns Markdown study notes for text
func (c *Client) SummarizeText(ctx context.Context, text string) (*summaries.Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, opError(ErrSummarization, &ValidationError{Field: "text", Reason: "text is required"})
	}
	return c.summarize(ctx, summarizeRequest{Text: text})
}

// SummarizeYouTube summarises the video at url. The URL is sent as given once a video id is found in it.
func (c *Client) SummarizeYouTube(ctx context.Context, url string) (*summaries.Summary, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, opError(ErrSummarization, &ValidationError{Field: "youtube_url", Reason: "YouTube URL is required"})
	}
	if _, ok := summaries.ExtractVideoID(url); !ok {
		return nil, opError(ErrSummarization, &ValidationError{Field: "youtube_url", Reason: "invalid YouTube URL format"})
	}
	return c.summarize(ctx, summarizeRequest{YouTubeURL: url})
}

func (c *Client) summarize(ctx context.Context, payload summarizeRequest) (*summaries.Summary, error) {
	req, err := jsonRequest(http.MethodPost, summarizePath, payload, true)
	if err != nil {
		return nil, opError(ErrSummarization, err)
	}

	var out summaries.Summary
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrSummarization, err)
	}
	return &out, nil
}

// SummarizePDF uploads the PDF read from r as the multipart field "file". The
// document is buffered so the upload can be repeated after a token refresh.
func (c *Client) SummarizePDF(ctx context.Context, filename string, r io.Reader) (*summaries.Summary, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, opError(ErrSummarization, &ValidationError{Field: "file", Reason: "filename is required"})
	}
	if r == nil {
		return nil, opError(ErrSummarization, &ValidationError{Field: "file", Reason: "PDF content is required"})
	}

	body, contentType, err := multipartFile("file", filepath.Base(filename), "application/pdf", r)
	if err != nil {
		return nil, opError(ErrSummarization, err)
	}
	req := request{
		method:        http.MethodPost,
		path:          summarizePDFPath,
		contentType:   contentType,
		body:          body,
		authenticated: true,
	}

	var out summaries.Summary
	if err := c.do(ctx, req, &out); err != nil {
		return nil, opError(ErrSummarization, err)
	}
	return &out, nil
}

// Summarize dispatches on whichever content source is set
func (c *Client) Summarize(ctx context.Context, source summaries.Source) (*summaries.Summary, error) {
	if err := source.Validate(); err != nil {
		return nil, opError(ErrSummarization, invalid("source", err))
	}

	kind, _ := source.Kind()
	switch kind {
	case summaries.KindText:
		return c.SummarizeText(ctx, source.Text)
	case summaries.KindYouTube:
		return c.SummarizeYouTube(ctx, source.YouTubeURL)
	case summaries.KindPDF:
		return c.SummarizePDF(ctx, source.PDFName, source.PDF)
	default:
		return nil, opError(ErrSummarization, fmt.Errorf("unsupported source %q", kind))
	}
}

func multipartFile(field, filename, contentType string, r io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	n, err := io.Copy(part, r)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", filename, err)
	}
	if n == 0 {
		return nil, "", &ValidationError{Field: field, Reason: "file is empty"}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
