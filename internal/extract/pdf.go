package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads uploaded PDF bytes through a scoped temporary file.
type PDFExtractor struct {
	dir string
	log *slog.Logger
}

// NewPDF builds a PDF extractor writing temp files under dir
// (os.TempDir() when empty).
func NewPDF(dir string, log *slog.Logger) *PDFExtractor {
	return &PDFExtractor{dir: dir, log: log}
}

// Extract returns the text of every page joined by single spaces. The temp
// file is removed before Extract returns, whatever the outcome.
func (p *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty upload", ErrInvalidPDF)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(p.dir, "digest-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			p.log.Warn("failed to remove temp pdf", "path", path, "err", rmErr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	text, skipped, err := readPDF(path)
	if err != nil {
		return "", err
	}
	if skipped > 0 {
		p.log.Warn("skipped unreadable pdf pages", "pages", skipped)
	}
	return text, nil
}

// readPDF parses the file at path. The parser panics on some malformed
// inputs; those are reported as ErrInvalidPDF.
func readPDF(path string) (text string, skipped int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, skipped = "", 0
			err = fmt.Errorf("%w: parser panic: %v", ErrInvalidPDF, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			skipped++
			continue
		}
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			pages = append(pages, pageText)
		}
	}
	if numPages > 0 && skipped == numPages {
		return "", skipped, fmt.Errorf("%w: no page could be read", ErrInvalidPDF)
	}
	return strings.Join(pages, " "), skipped, nil
}
