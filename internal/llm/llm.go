package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Request is a single rendered prompt. Template names the prompt it was
// rendered from and is used for logging and metrics only.
type Request struct {
	Template string
	Prompt   string
}

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

type responseKind int

const (
	kindText responseKind = iota
	kindRaw
)

// Response is what a provider handed back: either a text payload or an
// opaque raw payload when no text field was present.
type Response struct {
	kind responseKind
	text string
	raw  any
}

// Text wraps a plain text payload.
func Text(s string) Response {
	return Response{kind: kindText, text: s}
}

// Raw wraps a provider payload that carried no text field.
func Raw(v any) Response {
	return Response{kind: kindRaw, raw: v}
}

// IsText reports whether the response carried a text payload.
func (r Response) IsText() bool {
	return r.kind == kindText
}

// Content extracts the displayable string. Raw payloads are stringified.
func (r Response) Content() string {
	if r.kind == kindText {
		return r.text
	}
	switch v := r.raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	if b, err := json.Marshal(r.raw); err == nil {
		return string(b)
	}
	return fmt.Sprint(r.raw)
}
