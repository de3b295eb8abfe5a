// Package summarizer runs the two model calls: summarize extracted text and
// answer questions against the retained context.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"doc-digest/internal/cache"
	"doc-digest/internal/extract"
	"doc-digest/internal/metrics"
	"doc-digest/internal/pipeline"
	"doc-digest/internal/prompt"
)

// DefaultMaxInputChars bounds the text sent to the model.
const DefaultMaxInputChars = 12000

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	MaxInputChars int
	WebPolicy     ContextPolicy
	PDFPolicy     ContextPolicy
	Cache         cache.Cache
	CacheTTL      time.Duration
	Metrics       metrics.Recorder
}

// Result pairs a summary with the context retained for later questions.
// Both come from the same extraction.
type Result struct {
	Summary string
	Context string
	Cached  bool
}

// Service summarizes sources and answers questions. It holds no per-session
// state and is safe for concurrent use.
type Service struct {
	pipes     pipeline.Pipelines
	web       WebExtractor
	pdf       PDFExtractor
	maxChars  int
	webPolicy ContextPolicy
	pdfPolicy ContextPolicy
	cache     cache.Cache
	cacheTTL  time.Duration
	metrics   metrics.Recorder
	log       *slog.Logger
}

func NewService(pipes pipeline.Pipelines, web WebExtractor, pdf PDFExtractor, opts Options, log *slog.Logger) *Service {
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	if opts.WebPolicy == "" {
		opts.WebPolicy = ContextModelInput
	}
	if opts.PDFPolicy == "" {
		opts.PDFPolicy = ContextFullText
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNoOpCache()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}
	return &Service{
		pipes:     pipes,
		web:       web,
		pdf:       pdf,
		maxChars:  opts.MaxInputChars,
		webPolicy: opts.WebPolicy,
		pdfPolicy: opts.PDFPolicy,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		metrics:   opts.Metrics,
		log:       log,
	}
}

// Available reports whether the model pipelines were built.
func (s *Service) Available() bool {
	return s.pipes.Available()
}

// SummarizeURL fetches url and summarizes its text.
func (s *Service) SummarizeURL(ctx context.Context, url string) (Result, error) {
	return s.Summarize(ctx, extract.URL(url))
}

// SummarizePDF summarizes the text of an uploaded PDF.
func (s *Service) SummarizePDF(ctx context.Context, data []byte) (Result, error) {
	return s.Summarize(ctx, extract.PDF(data))
}

// Summarize extracts src, sends at most MaxInputChars characters of it to
// the summarization chain and returns the summary with the context its
// policy retains. On error the Result is empty.
func (s *Service) Summarize(ctx context.Context, src extract.Source) (Result, error) {
	op, policy := OpSummarizeWeb, s.webPolicy
	if src.Kind() == extract.KindPDF {
		op, policy = OpSummarizePDF, s.pdfPolicy
	}

	res, err := s.summarize(ctx, op, policy, src)
	s.metrics.RecordSummarize(string(src.Kind()), outcome(err))
	if err != nil {
		s.log.Warn("summarize failed", "source", src.Kind(), "kind", KindOf(err), "err", err)
		return Result{}, err
	}
	s.log.Info("summarized", "source", src.Kind(), "context_chars", extract.CharCount(res.Context), "cached", res.Cached)
	return res, nil
}

func (s *Service) summarize(ctx context.Context, op Op, policy ContextPolicy, src extract.Source) (Result, error) {
	chain, err := s.pipes.Summary()
	if err != nil {
		return Result{}, &Error{Kind: KindInit, Op: op, Err: err}
	}

	text, err := s.extract(ctx, src)
	if err != nil {
		return Result{}, &Error{Kind: KindExtraction, Op: op, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, &Error{Kind: KindExtraction, Op: op, Err: ErrNoContent}
	}

	input := extract.Truncate(text, s.maxChars)
	retained := policy.retain(text, input)

	key := cache.GenerateCacheKey(chain.Name(), string(src.Kind()), input)
	if summary, ok := s.cached(ctx, key); ok {
		return Result{Summary: summary, Context: retained, Cached: true}, nil
	}

	resp, err := chain.Invoke(ctx, map[string]string{prompt.VarPageData: input})
	if err != nil {
		return Result{}, &Error{Kind: KindInvocation, Op: op, Err: err}
	}
	summary := resp.Content()
	s.store(ctx, key, chain.Name(), summary)
	return Result{Summary: summary, Context: retained}, nil
}

func (s *Service) extract(ctx context.Context, src extract.Source) (string, error) {
	switch src.Kind() {
	case extract.KindWeb:
		if s.web == nil {
			return "", fmt.Errorf("web extraction not configured")
		}
		return s.web.Extract(ctx, src.URL())
	case extract.KindPDF:
		if s.pdf == nil {
			return "", fmt.Errorf("pdf extraction not configured")
		}
		return s.pdf.Extract(ctx, src.Bytes())
	}
	return "", fmt.Errorf("unknown source kind %q", src.Kind())
}

// Answer asks question against contextText. Preconditions are checked in order:
// model availability, non-empty context, non-blank question. None of them
// reaches the model.
func (s *Service) Answer(ctx context.Context, question, contextText string) (string, error) {
	answer, cached, err := s.answer(ctx, question, contextText)
	s.metrics.RecordAnswer(outcome(err))
	if err != nil {
		s.log.Warn("answer failed", "kind", KindOf(err), "err", err)
		return "", err
	}
	s.log.Info("answered", "question_chars", extract.CharCount(question), "cached", cached)
	return answer, nil
}

func (s *Service) answer(ctx context.Context, question, contextText string) (string, bool, error) {
	chain, err := s.pipes.QA()
	if err != nil {
		return "", false, &Error{Kind: KindInit, Op: OpAnswer, Err: err}
	}
	if strings.TrimSpace(contextText) == "" {
		return "", false, &Error{Kind: KindPrecondition, Op: OpAnswer, Err: ErrNoContext}
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", false, &Error{Kind: KindPrecondition, Op: OpAnswer, Err: ErrNoQuestion}
	}

	key := cache.GenerateCacheKey(chain.Name(), contextText, question)
	if answer, ok := s.cached(ctx, key); ok {
		return answer, true, nil
	}

	resp, err := chain.Invoke(ctx, map[string]string{
		prompt.VarContext:  contextText,
		prompt.VarQuestion: question,
	})
	if err != nil {
		return "", false, &Error{Kind: KindInvocation, Op: OpAnswer, Err: err}
	}
	answer := resp.Content()
	s.store(ctx, key, chain.Name(), answer)
	return answer, false, nil
}

// cached looks key up. Cache failures count as a miss.
func (s *Service) cached(ctx context.Context, key string) (string, bool) {
	res, err := s.cache.GetResult(ctx, key)
	if err != nil {
		s.log.Warn("cache read failed", "err", err)
		return "", false
	}
	if res == nil {
		return "", false
	}
	return res.Text, true
}

func (s *Service) store(ctx context.Context, key, template, text string) {
	if text == "" {
		return
	}
	err := s.cache.SetResult(ctx, key, &cache.Result{
		Template:  template,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, s.cacheTTL)
	if err != nil {
		s.log.Warn("failed to cache result", "template", template, "err", err)
	}
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	if k := KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
