package summarizer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"doc-digest/internal/extract"
	"doc-digest/internal/pipeline"
)

func TestMessage(t *testing.T) {
	unavailable := fmt.Errorf("%w: OPENAI_API_KEY is required", pipeline.ErrUnavailable)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), "boom"},
		{
			"summarize unavailable",
			&Error{Kind: KindInit, Op: OpSummarizeWeb, Err: unavailable},
			"Error: The summarization model is not available.",
		},
		{
			"pdf unavailable",
			&Error{Kind: KindInit, Op: OpSummarizePDF, Err: unavailable},
			"Error: The summarization model is not available.",
		},
		{
			"answer unavailable",
			&Error{Kind: KindInit, Op: OpAnswer, Err: unavailable},
			"Error: The question-answering model is not available.",
		},
		{
			"empty page",
			&Error{Kind: KindExtraction, Op: OpSummarizeWeb, Err: ErrNoContent},
			"Error: No content found on the page.",
		},
		{
			"empty pdf",
			&Error{Kind: KindExtraction, Op: OpSummarizePDF, Err: ErrNoContent},
			"Error: No text could be extracted from the PDF.",
		},
		{
			"fetch failure",
			&Error{Kind: KindExtraction, Op: OpSummarizeWeb, Err: &extract.StatusError{Code: 404, Status: "404 Not Found"}},
			"Error processing website: unexpected HTTP status 404 Not Found",
		},
		{
			"corrupt pdf",
			&Error{Kind: KindExtraction, Op: OpSummarizePDF, Err: extract.ErrInvalidPDF},
			"Error processing PDF: unreadable pdf",
		},
		{
			"summarize timeout",
			&Error{Kind: KindInvocation, Op: OpSummarizeWeb, Err: context.DeadlineExceeded},
			"Error processing website: context deadline exceeded",
		},
		{
			"no context",
			&Error{Kind: KindPrecondition, Op: OpAnswer, Err: ErrNoContext},
			"No context available. Please summarize a document first.",
		},
		{
			"no question",
			&Error{Kind: KindPrecondition, Op: OpAnswer, Err: ErrNoQuestion},
			"Please enter a question.",
		},
		{
			"answer invocation",
			&Error{Kind: KindInvocation, Op: OpAnswer, Err: errors.New("quota exceeded")},
			"An error occurred while getting the answer: quota exceeded",
		},
		{
			"wrapped error",
			fmt.Errorf("handler: %w", &Error{Kind: KindPrecondition, Op: OpAnswer, Err: ErrNoQuestion}),
			"Please enter a question.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := &Error{Kind: KindExtraction, Op: OpSummarizeWeb, Err: fmt.Errorf("%w: dial tcp", extract.ErrFetch)}

	assert.True(t, errors.Is(err, extract.ErrFetch))
	assert.Equal(t, KindExtraction, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("x")))
	assert.Equal(t, "summarize_web: extraction: fetch failed: dial tcp", err.Error())
}
