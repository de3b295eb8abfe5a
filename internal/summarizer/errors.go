package summarizer

import (
	"errors"
	"fmt"

	"doc-digest/internal/extract"
	"doc-digest/internal/pipeline"
)

// Kind classifies a failure.
type Kind string

const (
	// KindInit means the model pipelines were never built.
	KindInit Kind = "init"
	// KindExtraction covers fetch, parse and empty-content failures.
	KindExtraction Kind = "extraction"
	// KindInvocation means the model call failed or timed out.
	KindInvocation Kind = "invocation"
	// KindPrecondition means the caller supplied no context or no question.
	KindPrecondition Kind = "precondition"
)

// Op names the public operation that failed.
type Op string

const (
	OpSummarizeWeb Op = "summarize_web"
	OpSummarizePDF Op = "summarize_pdf"
	OpAnswer       Op = "answer"
)

var (
	// ErrModelUnavailable is the cause of every KindInit error.
	ErrModelUnavailable = pipeline.ErrUnavailable
	// ErrNoContent means extraction produced no text.
	ErrNoContent = extract.ErrNoContent
	// ErrNoContext means Answer was called before anything was summarized.
	ErrNoContext = errors.New("no context available")
	// ErrNoQuestion means Answer was called with a blank question.
	ErrNoQuestion = errors.New("no question")
)

// Error is a classified failure of a summarize or answer call.
type Error struct {
	Kind Kind
	Op   Op
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Message renders err as the text shown to the user. A nil error yields "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	if e.Op == OpAnswer {
		switch {
		case e.Kind == KindInit:
			return "Error: The question-answering model is not available."
		case errors.Is(e.Err, ErrNoContext):
			return "No context available. Please summarize a document first."
		case errors.Is(e.Err, ErrNoQuestion):
			return "Please enter a question."
		}
		return fmt.Sprintf("An error occurred while getting the answer: %v", e.Err)
	}

	if e.Kind == KindInit {
		return "Error: The summarization model is not available."
	}
	pdf := e.Op == OpSummarizePDF
	if errors.Is(e.Err, ErrNoContent) {
		if pdf {
			return "Error: No text could be extracted from the PDF."
		}
		return "Error: No content found on the page."
	}
	if pdf {
		return fmt.Sprintf("Error processing PDF: %v", e.Err)
	}
	return fmt.Sprintf("Error processing website: %v", e.Err)
}
