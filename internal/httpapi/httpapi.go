package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/TemirB/storefront-bot/internal/domain"
	"github.com/TemirB/storefront-bot/internal/observability"
	"github.com/TemirB/storefront-bot/internal/payment"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

const maxBody = 1 << 20

type UpdateHandler interface {
	Handle(ctx context.Context, update tgbotapi.Update) error
}

type Confirmer interface {
	ConfirmByReference(ctx context.Context, ref string) (*domain.Order, error)
}

type Dispatcher interface {
	Submit(f func()) bool
}

type Options struct {
	WebhookSecret string
	// UpdateTimeout bounds the processing of a single chat update.
	UpdateTimeout time.Duration
	Metrics       http.Handler
}

// backend is installed once the bot and the store are initialized.
type backend struct {
	updates   UpdateHandler
	confirmer Confirmer
}

// Server answers /healthz as soon as it listens. Webhooks get 503 until
// Ready installs the backend, so senders retry them later.
type Server struct {
	backend    atomic.Pointer[backend]
	dispatcher Dispatcher
	opts       Options
	router     chi.Router
	logger     *zap.Logger
	metrics    observability.Metrics
}

func New(updates UpdateHandler, confirmer Confirmer, dispatcher Dispatcher, opts Options,
	logger *zap.Logger, metrics observability.Metrics,
) *Server {
	if opts.UpdateTimeout <= 0 {
		opts.UpdateTimeout = 30 * time.Second
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	s := &Server{
		dispatcher: dispatcher,
		opts:       opts,
		router:     chi.NewRouter(),
		logger:     logger,
		metrics:    metrics,
	}
	s.routes()
	if updates != nil && confirmer != nil {
		s.Ready(updates, confirmer)
	}
	return s
}

// Ready starts routing webhooks to the given backend.
func (s *Server) Ready(updates UpdateHandler, confirmer Confirmer) {
	s.backend.Store(&backend{updates: updates, confirmer: confirmer})
	s.logger.Info("Webhooks enabled")
}

func (s *Server) notReady(w http.ResponseWriter) bool {
	if s.backend.Load() != nil {
		return false
	}
	w.Header().Set("Retry-After", "5")
	http.Error(w, "starting up", http.StatusServiceUnavailable)
	return true
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(ServerTimingApp(s.metrics))

	s.router.Post("/telegram/webhook", s.telegramWebhook)
	s.router.Post("/payments/webhook", s.paymentWebhook)
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.opts.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
}

// telegramWebhook acknowledges every decodable update at once and handles
// it on the dispatcher. Undecodable bodies are acknowledged too, otherwise
// Telegram keeps redelivering them.
func (s *Server) telegramWebhook(w http.ResponseWriter, r *http.Request) {
	if s.notReady(w) {
		return
	}
	updates := s.backend.Load().updates

	var update tgbotapi.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&update); err != nil {
		s.logger.Warn("Dropping undecodable update", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	ok := s.dispatcher.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.UpdateTimeout)
		defer cancel()
		if err := updates.Handle(ctx, update); err != nil {
			s.logger.Warn("Update handling failed", zap.Int("update_id", update.UpdateID), zap.Error(err))
		}
	})
	if !ok {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	if s.notReady(w) {
		return
	}
	confirmer := s.backend.Load().confirmer

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	cb, err := payment.ParseCallback(s.opts.WebhookSecret, body, r.Header.Get(payment.SignatureHeader))
	switch {
	case errors.Is(err, domain.ErrForbidden):
		s.logger.Warn("Payment callback with bad signature", zap.String("remote", r.RemoteAddr))
		http.Error(w, "bad signature", http.StatusUnauthorized)
		return
	case err != nil:
		s.logger.Warn("Bad payment callback", zap.Error(err))
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	if cb.Status != payment.StatusPaid {
		s.logger.Info("Payment callback ignored",
			zap.String("reference", cb.Reference),
			zap.String("status", string(cb.Status)),
		)
		writeJSON(w, http.StatusAccepted, map[string]string{"result": "ignored"})
		return
	}

	start := time.Now()
	order, err := confirmer.ConfirmByReference(r.Context(), cb.Reference)
	ms := float64(time.Since(start).Microseconds()) / 1000.0
	observability.AppendServerTiming(w, "confirm", ms, "")
	observability.SetIfPos(w, "X-Confirm-Time", ms)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "unknown reference", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrSoldOut):
		// Admins were notified; a retry would not help.
		writeJSON(w, http.StatusConflict, map[string]string{"result": "sold_out"})
		return
	case errors.Is(err, domain.ErrOrderExpired):
		writeJSON(w, http.StatusConflict, map[string]string{"result": "expired"})
		return
	case err != nil:
		s.logger.Error("Payment confirmation failed", zap.String("reference", cb.Reference), zap.Error(err))
		http.Error(w, "try again later", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result":       "confirmed",
		"order_number": order.Number,
		"status":       order.Status,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler { return s.router }
