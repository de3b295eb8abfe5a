package summarizer

import (
	"fmt"
	"strings"
)

// ContextPolicy decides what text is retained for question answering after
// a summarize call.
type ContextPolicy string

const (
	// ContextModelInput retains exactly the truncated text the model saw.
	ContextModelInput ContextPolicy = "model_input"
	// ContextFullText retains the whole extracted text.
	ContextFullText ContextPolicy = "full_text"
)

// ParseContextPolicy accepts "model_input" or "full_text", case-insensitively.
// An empty string yields def.
func ParseContextPolicy(s string, def ContextPolicy) (ContextPolicy, error) {
	switch ContextPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case ContextModelInput:
		return ContextModelInput, nil
	case ContextFullText:
		return ContextFullText, nil
	}
	return def, fmt.Errorf("unknown context policy %q (valid: %s, %s)", s, ContextModelInput, ContextFullText)
}

func (p ContextPolicy) retain(full, modelInput string) string {
	if p == ContextFullText {
		return full
	}
	return modelInput
}
