// Package preview downloads resource links and extracts their text so a
// resource can be read without leaving the terminal.
package preview

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/singleflight"
)

// ErrNotPDF is returned when a link does not point at a PDF document.
var ErrNotPDF = errors.New("resource is not a PDF")

var (
	pdfMagic             = []byte("%PDF-")
	extraneousWhitespace = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankLines           = regexp.MustCompile(`\n{3,}`)
)

// Document is the extracted text of one resource.
type Document struct {
	Link  string
	Path  string
	Pages int
	Text  string
}

// Previewer loads documents through the session's downloads. Concurrent loads
// of the same link share one download and one extraction.
type Previewer struct {
	session *Session
	group   singleflight.Group
}

// New wraps session.
func New(session *Session) *Previewer {
	return &Previewer{session: session}
}

// Load downloads link if needed and extracts its text.
func (p *Previewer) Load(ctx context.Context, link string) (Document, error) {
	v, err, shared := p.group.Do(link, func() (interface{}, error) {
		return p.load(ctx, link)
	})
	if shared {
		log.Printf("[preview] shared load for %s", link)
	}
	if err != nil {
		return Document{}, err
	}
	return v.(Document), nil
}

func (p *Previewer) load(ctx context.Context, link string) (Document, error) {
	path, err := p.session.Fetch(ctx, link)
	if err != nil {
		return Document{}, fmt.Errorf("download %s: %w", link, err)
	}
	ok, err := isPDF(path)
	if err != nil {
		return Document{}, err
	}
	if !ok {
		return Document{}, ErrNotPDF
	}
	pages, text, err := extractText(path)
	if err != nil {
		return Document{}, err
	}
	log.Printf("[preview] %s: %d pages, %d bytes of text", link, pages, len(text))
	return Document{Link: link, Path: path, Pages: pages, Text: text}, nil
}

func isPDF(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	head := make([]byte, 1024)
	n, err := io.ReadFull(bufio.NewReader(f), head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return bytes.Contains(head[:n], pdfMagic), nil
}

// extractText recovers from the parser's panics on malformed files.
func extractText(path string) (pages int, text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return 0, "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return 0, "", err
	}
	return reader.NumPage(), normalize(builder.String()), nil
}

func normalize(s string) string {
	s = extraneousWhitespace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}
