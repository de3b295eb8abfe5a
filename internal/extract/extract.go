// Package extract turns a source descriptor (a URL or PDF bytes) into raw,
// unstructured text.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNoContent means the source was reachable but yielded no text.
	ErrNoContent = errors.New("no content found")
	// ErrInvalidURL means the URL could not be turned into a request.
	ErrInvalidURL = errors.New("invalid url")
	// ErrFetch covers network failures and an open circuit.
	ErrFetch = errors.New("fetch failed")
	// ErrUnreachable narrows ErrFetch to a host that does not resolve or
	// refuses connections. It is never retried.
	ErrUnreachable = errors.New("host unreachable")
	// ErrTimeout means the fetch exceeded its deadline.
	ErrTimeout = errors.New("fetch timed out")
	// ErrBodyTooLarge means the response exceeded the configured body limit.
	ErrBodyTooLarge = errors.New("response body too large")
	// ErrInvalidPDF covers unreadable, corrupt and unparsable PDFs.
	ErrInvalidPDF = errors.New("unreadable pdf")
)

// StatusError is a non-200 HTTP response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %s", e.Status)
}

// Kind tags a Source.
type Kind string

const (
	KindWeb Kind = "web"
	KindPDF Kind = "pdf"
)

// Source is a URL or the bytes of an uploaded PDF.
type Source struct {
	kind Kind
	url  string
	data []byte
}

// URL describes a web page.
func URL(u string) Source {
	return Source{kind: KindWeb, url: u}
}

// PDF describes an uploaded file. data is copied so later writes by the
// caller cannot change the source.
func PDF(data []byte) Source {
	return Source{kind: KindPDF, data: append([]byte(nil), data...)}
}

func (s Source) Kind() Kind {
	return s.kind
}

// URL returns the page address of a web source.
func (s Source) URL() string {
	return s.url
}

// Bytes returns the PDF content. Callers must not modify it.
func (s Source) Bytes() []byte {
	return s.data
}

// Truncate returns the first max characters of s, counting Unicode code
// points. A non-positive max returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// CharCount counts Unicode code points.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// normalizeSpace collapses all whitespace runs into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
