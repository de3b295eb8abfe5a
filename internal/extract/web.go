package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/sony/gobreaker"

	"doc-digest/internal/retry"
)

// WebOptions configures the web extractor. Zero values fall back to defaults.
type WebOptions struct {
	Timeout     time.Duration
	Retries     int
	RetryBase   time.Duration
	MaxBodySize int64
	UserAgent   string
	// A host's circuit opens once it has seen BreakerMinRequests fetches and
	// at least BreakerFailureRatio of them failed upstream.
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerCooldown     time.Duration
}

const (
	defaultFetchTimeout        = 20 * time.Second
	defaultRetryBase           = 250 * time.Millisecond
	defaultMaxBodySize         = 5 << 20
	defaultUserAgent           = "summarizer/1.0"
	defaultBreakerMinRequests  = 5
	defaultBreakerFailureRatio = 0.6
	defaultBreakerCooldown     = 60 * time.Second

	// maxBreakers bounds the per-host table; it is reset when full.
	maxBreakers = 1024
)

// Web fetches a page and reduces it to plain text.
type Web struct {
	client *http.Client
	opts   WebOptions
	log    *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

type fetchedPage struct {
	body []byte
	url  *url.URL
}

// NewWeb builds a web extractor. The http.Client has no timeout of its own;
// each fetch derives a deadline from opts.Timeout.
func NewWeb(opts WebOptions, log *slog.Logger) *Web {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = defaultRetryBase
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = defaultMaxBodySize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.BreakerMinRequests == 0 {
		opts.BreakerMinRequests = defaultBreakerMinRequests
	}
	if opts.BreakerFailureRatio <= 0 || opts.BreakerFailureRatio > 1 {
		opts.BreakerFailureRatio = defaultBreakerFailureRatio
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = defaultBreakerCooldown
	}

	return &Web{
		client:   &http.Client{},
		opts:     opts,
		log:      log,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Extract fetches rawURL and returns its whitespace-normalized text.
// Truncation is left to the caller.
func (w *Web) Extract(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	breaker := w.breaker(u.Host)

	var page fetchedPage
	err = retry.Do(ctx, w.opts.Retries, w.opts.RetryBase, retryable, func() error {
		res, err := breaker.Execute(func() (interface{}, error) {
			return w.fetch(ctx, rawURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return fmt.Errorf("%w: %s: %w", ErrFetch, u.Host, err)
			}
			return err
		}
		page = res.(fetchedPage)
		return nil
	})
	if err != nil {
		w.log.Warn("web fetch failed", "url", rawURL, "err", err)
		return "", err
	}

	text := htmlToText(page.body, page.url)
	if text == "" {
		return "", ErrNoContent
	}
	w.log.Debug("web page extracted", "url", rawURL, "chars", CharCount(text))
	return text, nil
}

// breaker returns the circuit for host, creating it on first use. Hosts
// never share a circuit, so one failing site cannot block another.
func (w *Web) breaker(host string) *gobreaker.CircuitBreaker {
	host = strings.ToLower(host)

	w.mu.Lock()
	defer w.mu.Unlock()
	if cb, ok := w.breakers[host]; ok {
		return cb
	}
	if len(w.breakers) >= maxBreakers {
		w.breakers = make(map[string]*gobreaker.CircuitBreaker)
	}

	minRequests, ratio := w.opts.BreakerMinRequests, w.opts.BreakerFailureRatio
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "web-fetch:" + host,
		Interval: w.opts.BreakerCooldown,
		Timeout:  w.opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			w.log.Warn("circuit breaker state changed",
				"circuit", name,
				"from", from.String(),
				"to", to.String())
		},
	})
	w.breakers[host] = cb
	return cb
}

func (w *Web) fetch(ctx context.Context, rawURL string) (fetchedPage, error) {
	reqCtx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fetchedPage{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", w.opts.UserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fetchedPage{}, ctxErr
		}
		if reqCtx.Err() == context.DeadlineExceeded {
			return fetchedPage{}, fmt.Errorf("%w: request exceeded %v", ErrTimeout, w.opts.Timeout)
		}
		return fetchedPage{}, transportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fetchedPage{}, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, w.opts.MaxBodySize+1))
	if err != nil {
		return fetchedPage{}, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	if int64(len(body)) > w.opts.MaxBodySize {
		return fetchedPage{}, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, w.opts.MaxBodySize)
	}

	pageURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}
	return fetchedPage{body: body, url: pageURL}, nil
}

// transportError classifies a failed client.Do. A bad scheme or host can
// never succeed; a name that does not resolve or a refused connection is the
// caller's address, not an unhealthy upstream.
func transportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && !isNetError(urlErr.Err) {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return fmt.Errorf("%w: %w: %v", ErrFetch, ErrUnreachable, err)
	}
	return fmt.Errorf("%w: %v", ErrFetch, err)
}

// htmlToText prefers the readability article text and falls back to the
// whole body with scripts and styles stripped.
func htmlToText(body []byte, pageURL *url.URL) string {
	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		if text := normalizeSpace(article.TextContent); text != "" {
			return text
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, template").Remove()
	if text := normalizeSpace(doc.Find("body").Text()); text != "" {
		return text
	}
	return normalizeSpace(doc.Text())
}

// upstreamHealthy reports whether err says nothing bad about the host. Only
// 5xx responses, timeouts and broken connections count against a circuit.
func upstreamHealthy(err error) bool {
	if err == nil {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code < http.StatusInternalServerError
	}
	if errors.Is(err, ErrUnreachable) || errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrBodyTooLarge) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	return false
}

func retryable(err error) bool {
	if errors.Is(err, ErrUnreachable) || errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError || se.Code == http.StatusTooManyRequests
	}
	return errors.Is(err, ErrFetch) || errors.Is(err, ErrTimeout)
}

func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
