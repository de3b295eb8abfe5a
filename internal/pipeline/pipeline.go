// Package pipeline binds prompt templates to a model client. Pipelines are
// built once at startup and are read-only afterwards, so one value can be
// shared by every request without locking.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doc-digest/internal/llm"
	"doc-digest/internal/metrics"
	"doc-digest/internal/prompt"
)

// ErrUnavailable is returned by every accessor of an unavailable Pipelines.
var ErrUnavailable = errors.New("model pipeline unavailable")

// Chain is a prompt template piped into a model client.
type Chain struct {
	tmpl    *prompt.Template
	client  llm.Client
	metrics metrics.Recorder
}

// Name returns the template name.
func (c *Chain) Name() string {
	return c.tmpl.Name()
}

// Invoke renders vars into the template and calls the model.
func (c *Chain) Invoke(ctx context.Context, vars map[string]string) (llm.Response, error) {
	text, err := c.tmpl.Render(vars)
	if err != nil {
		return llm.Response{}, err
	}
	start := time.Now()
	resp, err := c.client.Complete(ctx, llm.Request{Template: c.tmpl.Name(), Prompt: text})
	c.metrics.RecordInvocation(c.tmpl.Name(), time.Since(start), err)
	if err != nil {
		return llm.Response{}, err
	}
	return resp, nil
}

// Pipelines holds the summarization and question-answering chains, or the
// reason they could not be built.
type Pipelines struct {
	summary *Chain
	qa      *Chain
	reason  error
}

// Option customizes New.
type Option func(*Pipelines)

// WithMetrics records invocation latency on r.
func WithMetrics(r metrics.Recorder) Option {
	return func(p *Pipelines) {
		p.summary.metrics = r
		p.qa.metrics = r
	}
}

// New composes both chains over client. Template errors produce an
// unavailable value instead of a partially built one.
func New(client llm.Client, opts ...Option) Pipelines {
	if client == nil {
		return Unavailable(errors.New("nil model client"))
	}
	sum, err := prompt.Summary()
	if err != nil {
		return Unavailable(err)
	}
	qa, err := prompt.QA()
	if err != nil {
		return Unavailable(err)
	}
	p := Pipelines{
		summary: &Chain{tmpl: sum, client: client, metrics: metrics.Noop{}},
		qa:      &Chain{tmpl: qa, client: client, metrics: metrics.Noop{}},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Unavailable returns Pipelines that refuse every call with reason.
func Unavailable(reason error) Pipelines {
	if reason == nil {
		reason = errors.New("not initialized")
	}
	return Pipelines{reason: reason}
}

// Available reports whether both chains were built.
func (p Pipelines) Available() bool {
	return p.reason == nil && p.summary != nil && p.qa != nil
}

// Reason returns why the pipelines are unavailable, or nil.
func (p Pipelines) Reason() error {
	if p.Available() {
		return nil
	}
	if p.reason == nil {
		return errors.New("not initialized")
	}
	return p.reason
}

// Summary returns the summarization chain.
func (p Pipelines) Summary() (*Chain, error) {
	if !p.Available() {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, p.Reason())
	}
	return p.summary, nil
}

// QA returns the question-answering chain.
func (p Pipelines) QA() (*Chain, error) {
	if !p.Available() {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, p.Reason())
	}
	return p.qa, nil
}
