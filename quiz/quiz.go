package quiz

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jrsteele09/go-study-client/internal/utils"
)

// Question is one multiple-choice question
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// Validate checks the question has text, at least two options and an answer among them
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("question text is required")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("at least two options are required, got %d", len(q.Options))
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
		return fmt.Errorf("answer index %d is out of range", q.AnswerIndex)
	}
	return nil
}

// CorrectOption returns the text of the right answer, empty if the index is out of range
func (q Question) CorrectOption() string {
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.AnswerIndex]
}

// OptionLabel returns the letter shown for option i ("A", "B", ...)
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return fmt.Sprint(i + 1)
	}
	return string(rune('A' + i))
}

// ParseOptionLabel converts a letter or a 1-based number into an option index
func ParseOptionLabel(label string) (int, error) {
	label = strings.TrimSpace(label)
	if len(label) == 1 {
		c := unicode.ToUpper(rune(label[0]))
		if c >= 'A' && c <= 'Z' {
			return int(c - 'A'), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(label, "%d", &n); err != nil || n < 1 {
		return 0, fmt.Errorf("invalid option %q", label)
	}
	return n - 1, nil
}

// Questions is the payload of the quiz generation endpoint
type Questions struct {
	Questions []Question `json:"questions"`
}

// QuizRecord is one entry of a user's quiz history
type QuizRecord struct {
	UserID     string          `json:"user_id,omitempty"`
	SourceText string          `json:"source_text,omitempty"` // Truncated input the quiz was generated from
	Questions  []Question      `json:"questions"`
	CreatedAt  utils.Timestamp `json:"created_at"`
}

// List is the payload of the quiz history endpoint
type List struct {
	Quizzes []QuizRecord `json:"quizzes"`
}

// DownloadRequest is the body sent to the PDF export endpoint
type DownloadRequest struct {
	Title    string     `json:"title"`
	QuizData []Question `json:"quiz_data"`
}

// Export describes a PDF written by a quiz export
type Export struct {
	Filename string // Suggested file name from the response
	Bytes    int64  // Number of bytes written
}

// ExportFilename picks the download name from a Content-Disposition header,
// falling back to "<title>.pdf". Directory components are always stripped.
func ExportFilename(contentDisposition, title string) string {
	if name := dispositionFilename(contentDisposition); name != "" {
		if base := SanitizeFilename(filepath.Base(name)); base != "" && base != "." {
			return base
		}
	}
	return SanitizeFilename(title) + ".pdf"
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		return params["filename"]
	}

	// unquoted names with spaces are not valid media parameters
	_, rest, found := strings.Cut(header, "filename=")
	if !found {
		return ""
	}
	if i := strings.Index(rest, ";"); i >= 0 {
		rest = rest[:i]
	}
	return strings.Trim(strings.TrimSpace(rest), `"`)
}

// SanitizeFilename replaces characters that are unsafe in file names. An empty result becomes "quiz".
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "quiz"
	}
	return cleaned
}
