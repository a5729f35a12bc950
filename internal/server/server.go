// Package server exposes the WhatsApp webhook and runs one conversation turn
// per inbound text message.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/graph"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/observability/metrics"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/whatsapp"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

// Messenger is the part of the WhatsApp client the pipeline uses.
type Messenger interface {
	MarkReadWithTyping(ctx context.Context, messageID string) error
	SendText(ctx context.Context, to, text, replyTo string) (*whatsapp.SendResponse, error)
}

// Sessions resolves the conversation handle of a user.
type Sessions interface {
	ResolveOrCreate(ctx context.Context, userID string) (string, error)
}

// Config holds router configuration
type Config struct {
	VerifyToken string
	// AppSecret enables X-Hub-Signature-256 checks when set.
	AppSecret string
	Apology   string

	Runner    graph.Runner
	Sessions  Sessions
	Messenger Messenger

	Metrics  *metrics.AssistantMetrics
	Gatherer prometheus.Gatherer
}

// NewRouter creates a chi router with all routes configured.
func NewRouter(cfg Config) http.Handler {
	h := &webhookHandler{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", health)
	r.Get("/webhook", h.verify)
	r.Post("/webhook", h.receive)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
