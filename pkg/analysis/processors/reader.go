package processors

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// DocumentReader extracts raw text from document bytes
type DocumentReader interface {
	// Read returns the raw text of content
	Read(ctx context.Context, content []byte) (string, error)

	// Extensions returns the file extensions handled by the reader
	Extensions() []string
}

var readers = []DocumentReader{
	NewHTMLReader(),
	NewPDFReader(),
}

// ReaderFor picks the reader for path by extension, defaulting to plain text
func ReaderFor(path string) DocumentReader {
	ext := strings.ToLower(filepath.Ext(path))
	for _, r := range readers {
		for _, e := range r.Extensions() {
			if e == ext {
				return r
			}
		}
	}
	return NewTextReader()
}

// ReadDocument reads the file at path and returns its raw text. Every failure
// is a ReadError.
func ReadDocument(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", analysis.ReadError("read "+path, err)
	}

	text, err := ReaderFor(path).Read(ctx, content)
	if err != nil {
		return "", analysis.ReadError("decode "+path, err)
	}
	return text, nil
}

// TextReader reads UTF-8 text files
type TextReader struct{}

func NewTextReader() *TextReader {
	return &TextReader{}
}

func (r *TextReader) Read(ctx context.Context, content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("content is not valid UTF-8")
	}
	return string(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))), nil
}

func (r *TextReader) Extensions() []string {
	return []string{".txt", ".md"}
}

// HTMLReader extracts the visible body text of an HTML document
type HTMLReader struct{}

func NewHTMLReader() *HTMLReader {
	return &HTMLReader{}
}

// Read drops script and style elements and converts the body to markdown so
// block elements stay separated by newlines.
func (r *HTMLReader) Read(ctx context.Context, content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("content is not valid UTF-8")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", errors.Wrap(err, "failed to create document from HTML content")
	}
	doc.Find("script, style, noscript").Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", errors.Wrap(err, "failed to read HTML body")
	}

	md, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		// fall back to the flattened body text
		return strings.TrimSpace(doc.Find("body").Text()), nil
	}
	return strings.TrimSpace(md), nil
}

func (r *HTMLReader) Extensions() []string {
	return []string{".html", ".htm"}
}

// PDFReader extracts the plain text of every page
type PDFReader struct{}

func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

func (r *PDFReader) Read(ctx context.Context, content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", errors.Wrap(err, "failed to open PDF")
	}

	var sb strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := reader.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (r *PDFReader) Extensions() []string {
	return []string{".pdf"}
}
