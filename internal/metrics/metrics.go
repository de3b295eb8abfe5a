// Package metrics records summarize/answer outcomes and model latency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK = "ok"
)

// Recorder abstracts metric sinks so services can be tested without Prometheus.
type Recorder interface {
	// RecordSummarize counts one summarize call. outcome is "ok" or an error kind.
	RecordSummarize(source, outcome string)
	// RecordAnswer counts one answer call.
	RecordAnswer(outcome string)
	// RecordInvocation observes one model call for a prompt template.
	RecordInvocation(template string, d time.Duration, err error)
}

// Prometheus implements Recorder with client_golang collectors.
type Prometheus struct {
	summarize   *prometheus.CounterVec
	answer      *prometheus.CounterVec
	invocations *prometheus.HistogramVec
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		summarize: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "digest",
			Name:      "summarize_requests_total",
			Help:      "Summarize calls by source and outcome.",
		}, []string{"source", "outcome"}),
		answer: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "digest",
			Name:      "answer_requests_total",
			Help:      "Answer calls by outcome.",
		}, []string{"outcome"}),
		invocations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "digest",
			Name:      "llm_invocation_duration_seconds",
			Help:      "Model invocation latency by prompt template and status.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"template", "status"}),
	}
}

func (p *Prometheus) RecordSummarize(source, outcome string) {
	p.summarize.WithLabelValues(source, outcome).Inc()
}

func (p *Prometheus) RecordAnswer(outcome string) {
	p.answer.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) RecordInvocation(template string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.invocations.WithLabelValues(template, status).Observe(d.Seconds())
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordSummarize(string, string) {}
func (Noop) RecordAnswer(string) {}
func (Noop) RecordInvocation(string, time.Duration, error) {}
