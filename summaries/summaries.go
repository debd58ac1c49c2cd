package summaries

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jrsteele09/go-study-client/internal/utils"
)

// Kind identifies what a summary was produced from
type Kind string

const (
	KindText    Kind = "text"
	KindYouTube Kind = "youtube"
	KindPDF     Kind = "pdf"
)

// StoredTextLimit is how much of the submitted text is kept with a history record
const StoredTextLimit = 1000

var ErrNoSource = errors.New("no text, PDF or YouTube URL provided")

// Source is exactly one piece of content to summarise
type Source struct {
	Text       string
	YouTubeURL string
	PDFName    string    // Filename sent with the upload
	PDF        io.Reader // PDF content; requires PDFName
}

// Kind returns which content the source carries. It fails unless exactly one is set.
func (s Source) Kind() (Kind, error) {
	var kinds []Kind
	if strings.TrimSpace(s.Text) != "" {
		kinds = append(kinds, KindText)
	}
	if strings.TrimSpace(s.YouTubeURL) != "" {
		kinds = append(kinds, KindYouTube)
	}
	if s.PDF != nil || s.PDFName != "" {
		kinds = append(kinds, KindPDF)
	}

	switch len(kinds) {
	case 0:
		return "", ErrNoSource
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("exactly one source is allowed, got %d", len(kinds))
	}
}

// Validate checks the source is complete for its kind
func (s Source) Validate() error {
	kind, err := s.Kind()
	if err != nil {
		return err
	}
	switch kind {
	case KindYouTube:
		if _, ok := ExtractVideoID(s.YouTubeURL); !ok {
			return errors.New("invalid YouTube URL format")
		}
	case KindPDF:
		if s.PDF == nil {
			return errors.New("PDF content is required")
		}
		if strings.TrimSpace(s.PDFName) == "" {
			return errors.New("PDF filename is required")
		}
	}
	return nil
}

// Summary is the backend's response to a summarise request (Markdown text)
type Summary struct {
	Summary string `json:"summary"`
}

// SummaryRecord is one entry of a user's summary history
type SummaryRecord struct {
	UserID       string          `json:"user_id,omitempty"`
	Type         Kind            `json:"type"`
	Source       string          `json:"source,omitempty"`        // YouTube URL as submitted
	VideoID      string          `json:"video_id,omitempty"`      // YouTube only
	Filename     string          `json:"filename,omitempty"`      // PDF only
	OriginalText string          `json:"original_text,omitempty"` // Text only, truncated
	Summary      string          `json:"summary"`
	CreatedAt    utils.Timestamp `json:"created_at"`
}

// Label is a short human readable description of what was summarised
func (r SummaryRecord) Label() string {
	switch r.Type {
	case KindYouTube:
		if r.VideoID != "" {
			return "youtube:" + r.VideoID
		}
		return r.Source
	case KindPDF:
		return r.Filename
	default:
		return Truncate(strings.Join(strings.Fields(r.OriginalText), " "), 60)
	}
}

// List is the payload of the summary history endpoint
type List struct {
	Summaries []SummaryRecord `json:"summaries"`
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID finds the 11 character video id in a watch, youtu.be, embed or shorts URL
func ExtractVideoID(url string) (string, bool) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// CanonicalURL rewrites any recognised YouTube URL to its watch form; other input is returned unchanged
func CanonicalURL(url string) string {
	id, ok := ExtractVideoID(url)
	if !ok {
		return url
	}
	return "https://www.youtube.com/watch?v=" + id
}

// Truncate shortens s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
