package summarizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"doc-digest/internal/llm"
	"doc-digest/internal/logger"
	"doc-digest/internal/pipeline"
)

func TestCoreSummarizeWebsite(t *testing.T) {
	web := &MockWebExtractor{}
	web.On("Extract", mock.Anything, "https://example.com/").Return(examplePageText, nil)
	core := NewCore(NewService(pipeline.New(llm.NewStubClient()), web, nil, Options{}, logger.Discard()))

	summary, retained := core.SummarizeWebsite(context.Background(), "https://example.com/")

	assert.NotEmpty(t, summary)
	assert.Equal(t, examplePageText, retained)

	answer := core.AnswerQuestion(context.Background(), "What is it for?", retained)
	assert.Contains(t, answer, "[qa]")
}

func TestCoreReportsTimeout(t *testing.T) {
	web := &MockWebExtractor{}
	web.On("Extract", mock.Anything, mock.Anything).Return(examplePageText, nil)
	client := &llm.MockClient{}
	client.On("Complete", mock.Anything, mock.Anything).Return(llm.Response{}, context.DeadlineExceeded)
	core := NewCore(NewService(pipeline.New(client), web, nil, Options{}, logger.Discard()))

	summary, retained := core.SummarizeWebsite(context.Background(), "https://example.com/")

	assert.Contains(t, summary, "Error processing website")
	assert.Contains(t, summary, "deadline exceeded")
	assert.Empty(t, retained)
}

func TestCoreUnavailable(t *testing.T) {
	core := NewCore(NewService(pipeline.Unavailable(errors.New("no key")), nil, nil, Options{}, logger.Discard()))

	summary, retained := core.SummarizePDF(context.Background(), []byte("%PDF"))
	assert.Equal(t, "Error: The summarization model is not available.", summary)
	assert.Empty(t, retained)

	assert.Equal(t, "Error: The question-answering model is not available.",
		core.AnswerQuestion(context.Background(), "Why?", "context"))
}

func TestCoreRecoversFromPanics(t *testing.T) {
	pdf := &MockPDFExtractor{}
	pdf.On("Extract", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("parser exploded")
	}).Return("", nil)
	core := NewCore(NewService(pipeline.New(llm.NewStubClient()), nil, pdf, Options{}, logger.Discard()))

	var summary, retained string
	assert.NotPanics(t, func() {
		summary, retained = core.SummarizePDF(context.Background(), []byte("%PDF"))
	})
	assert.Equal(t, "Error processing PDF: internal error: parser exploded", summary)
	assert.Empty(t, retained)
}
