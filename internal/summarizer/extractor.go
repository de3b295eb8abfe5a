package summarizer

import "context"

// WebExtractor turns a URL into page text.
type WebExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// PDFExtractor turns uploaded PDF bytes into text.
type PDFExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}
