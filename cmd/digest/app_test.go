package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"doc-digest/internal/app"
	"doc-digest/internal/cache"
	"doc-digest/internal/extract"
	"doc-digest/internal/llm"
	"doc-digest/internal/logger"
	"doc-digest/internal/pipeline"
	"doc-digest/internal/session"
	"doc-digest/internal/summarizer"
)

const pageText = "Example Domain This domain is for use in illustrative examples in documents."

type cliEnv struct {
	web   *summarizer.MockWebExtractor
	pdf   *summarizer.MockPDFExtractor
	cache *cache.MockCache
	out   bytes.Buffer
}

func newCLIEnv() *cliEnv {
	return &cliEnv{
		web:   &summarizer.MockWebExtractor{},
		pdf:   &summarizer.MockPDFExtractor{},
		cache: &cache.MockCache{},
	}
}

func (e *cliEnv) build(c *cli.Context) (app.Deps, error) {
	log := logger.Discard()
	e.cache.On("Close").Return(nil).Maybe()
	return app.Deps{
		Log:        log,
		Summarizer: summarizer.NewService(pipeline.New(llm.NewStubClient()), e.web, e.pdf, summarizer.Options{}, log),
		Cache:      e.cache,
		Sessions:   session.NewMemoryStore(0),
	}, nil
}

func (e *cliEnv) run(stdin string, args ...string) error {
	a := newApp(e.build, strings.NewReader(stdin), &e.out)
	return a.RunContext(context.Background(), append([]string{"digest"}, args...))
}

func exitCodeOf(err error) int {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return -1
}

func TestURLCommandWithQuestions(t *testing.T) {
	env := newCLIEnv()
	env.web.On("Extract", mock.Anything, "https://example.com/").Return(pageText, nil)

	err := env.run("", "url", "--ask", "What is it for?", "-q", "   ", "https://example.com/")
	require.NoError(t, err)

	out := env.out.String()
	assert.True(t, strings.HasPrefix(out, "Summary:\n[summary] "), out)
	assert.Contains(t, out, "Q: What is it for?\nAnswer:\n[qa] ")
	assert.Contains(t, out, "Please enter a question.")
}

func TestURLCommandFailure(t *testing.T) {
	env := newCLIEnv()
	env.web.On("Extract", mock.Anything, mock.Anything).Return("", extract.ErrNoContent)

	err := env.run("", "url", "--ask", "Why?", "https://example.com/empty")

	assert.Equal(t, 1, exitCodeOf(err))
	assert.Equal(t, "Summary:\nError: No content found on the page.\n", env.out.String())
}

func TestInteractiveLoop(t *testing.T) {
	env := newCLIEnv()
	env.web.On("Extract", mock.Anything, mock.Anything).Return(pageText, nil)

	err := env.run("Who uses it?\n\nexit\nNever asked\n", "url", "-i", "https://example.com/")
	require.NoError(t, err)

	out := env.out.String()
	assert.Contains(t, out, "Q: Who uses it?\nAnswer:\n[qa] ")
	assert.Contains(t, out, "Please enter a question.")
	assert.NotContains(t, out, "Never asked")
}

func TestInteractiveLoopEOF(t *testing.T) {
	env := newCLIEnv()
	env.web.On("Extract", mock.Anything, mock.Anything).Return(pageText, nil)

	err := env.run("One question", "url", "--interactive", "https://example.com/")
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "Q: One question")
}

func TestPDFCommand(t *testing.T) {
	env := newCLIEnv()
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600))
	env.pdf.On("Extract", mock.Anything, []byte("%PDF-1.4 fake")).Return("Quarterly revenue grew.", nil)

	err := env.run("", "pdf", "--ask", "What grew?", path)
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "[qa] ")
	assert.Contains(t, env.out.String(), "Quarterly revenue grew.")
}

func TestPDFCommandMissingFile(t *testing.T) {
	env := newCLIEnv()

	err := env.run("", "pdf", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Equal(t, 1, exitCodeOf(err))
	env.pdf.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"url without argument", []string{"url"}},
		{"pdf with two arguments", []string{"pdf", "a.pdf", "b.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv()
			err := env.run("", tt.args...)
			assert.Equal(t, 2, exitCodeOf(err))
			assert.Contains(t, err.Error(), "usage: digest")
		})
	}
}

func TestBuildFailure(t *testing.T) {
	a := newApp(func(*cli.Context) (app.Deps, error) {
		return app.Deps{}, errors.New("bad config")
	}, strings.NewReader(""), &bytes.Buffer{})

	err := a.RunContext(context.Background(), []string{"digest", "url", "https://example.com/"})
	assert.Equal(t, 1, exitCodeOf(err))
	assert.Contains(t, err.Error(), "bad config")
}

func TestCachePurge(t *testing.T) {
	env := newCLIEnv()
	env.cache.On("Purge", mock.Anything).Return(3, nil).Once()

	require.NoError(t, env.run("", "cache", "purge"))
	assert.Equal(t, "removed 3 cached results\n", env.out.String())
	env.cache.AssertExpectations(t)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 2, exitCode(cli.Exit("usage", 2)))
	assert.Equal(t, 1, exitCode(cli.Exit("", 1)))
}
