package mockapi

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jrsteele09/go-study-client/quiz"
)

// US letter in points, with the margins used by the production renderer
const (
	pageWidth     = 612
	pageHeight    = 792
	marginLeft    = 50
	marginTop     = 50
	marginBottom  = 100
	questionWrap  = 80
	optionWrap    = 78
	questionLead  = 15
	optionLead    = 12
	questionSpace = 10
)

type pdfLine struct {
	text string
	bold bool
	size int
	y    int
}

// renderQuizPDF lays the quiz out one line per text object in uncompressed
// Helvetica, starting a new page when the cursor passes the bottom margin.
func renderQuizPDF(title string, questions []quiz.Question) ([]byte, error) {
	var pages [][]pdfLine
	var page []pdfLine
	y := pageHeight - marginTop

	emit := func(text string, bold bool, size, lead int) {
		if y < marginBottom {
			pages = append(pages, page)
			page = nil
			y = pageHeight - marginTop
		}
		page = append(page, pdfLine{text: text, bold: bold, size: size, y: y})
		y -= lead
	}

	emit(title, true, 16, 30)
	for i, q := range questions {
		for _, line := range wrapText(fmt.Sprintf("Q%d: %s", i+1, q.Question), questionWrap) {
			emit(line, false, 10, questionLead)
		}
		for j, opt := range q.Options {
			for _, line := range wrapText(fmt.Sprintf("   %s. %s", quiz.OptionLabel(j), opt), optionWrap) {
				emit(line, false, 10, optionLead)
			}
		}
		y -= questionSpace
	}
	pages = append(pages, page)

	return writePDF(pages)
}

func writePDF(pages [][]pdfLine) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New("no pages")
	}

	var buf bytes.Buffer
	var offsets []int
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1 catalog, 2 page tree, 3 and 4 fonts, then a page and content pair per page
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}
	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	object("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	object("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>")

	for i, lines := range pages {
		var content strings.Builder
		for _, line := range lines {
			font := "F1"
			if line.bold {
				font = "F2"
			}
			fmt.Fprintf(&content, "BT /%s %d Tf %d %d Td (%s) Tj ET\n", font, line.size, marginLeft, line.y, pdfEscape(line.text))
		}
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
			pageWidth, pageHeight, 6+2*i))
		object(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes(), nil
}

// pdfEscape escapes a literal string. Characters outside printable ASCII are
// replaced since the standard fonts carry no Unicode mapping.
func pdfEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '(' || r == ')' || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r < 0x20 || r > 0x7e:
			sb.WriteByte('?')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func wrapText(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 || len(lines) == 0 {
		lines = append(lines, line.String())
	}
	// keep the leading indent of option lines
	if indent := len(text) - len(strings.TrimLeft(text, " ")); indent > 0 && len(lines) > 0 {
		lines[0] = strings.Repeat(" ", indent) + lines[0]
	}
	return lines
}

var pdfTextOp = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*Tj`)

// extractPDFText pulls the literal strings shown with Tj from uncompressed
// content streams. It is enough to read the documents renderQuizPDF writes.
func extractPDFText(content []byte) (string, error) {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return "", errors.New("file is not a PDF")
	}
	var lines []string
	for _, match := range pdfTextOp.FindAllSubmatch(content, -1) {
		lines = append(lines, pdfUnescape(string(match[1])))
	}
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("No readable text found in PDF.")
	}
	return text, nil
}

func pdfUnescape(s string) string {
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
