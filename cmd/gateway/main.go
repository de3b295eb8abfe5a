package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"doc-digest/internal/app"
	"doc-digest/internal/config"
	"doc-digest/internal/httputil"
)

const shutdownTimeout = 10 * time.Second

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, deps)
	stop()
	deps.Close()
	if err != nil {
		deps.Log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, deps app.Deps) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", srv.Addr, "model_available", deps.Summarizer.Available())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		deps.Log.Info("shutting down gateway")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(deps app.Deps) *chi.Mux {
	r := httputil.NewRouter(deps.Log, requestTimeout(deps.Config))

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", createSessionHandler(deps))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getSessionHandler(deps))
			r.Delete("/", deleteSessionHandler(deps))
			r.Post("/url", summarizeURLHandler(deps))
			r.Post("/pdf", summarizePDFHandler(deps))
			r.Post("/questions", questionHandler(deps))
		})
	})
	r.Get("/healthz", httputil.HealthHandler(deps.Summarizer.Available))
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return r
}

// requestTimeout leaves room for every fetch attempt plus one model call.
func requestTimeout(cfg config.Config) time.Duration {
	fetch := cfg.FetchTimeout * time.Duration(cfg.FetchRetries+1)
	d := fetch + cfg.LLMTimeout + 10*time.Second
	if d < 60*time.Second {
		return 60 * time.Second
	}
	return d
}
