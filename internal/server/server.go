// Package server wires the HTTP routes and middleware in front of the
// spin engine.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/DegenSlots_Go/internal/eventlog"
	"github.com/osse101/DegenSlots_Go/internal/handler"
	"github.com/osse101/DegenSlots_Go/internal/logger"
	"github.com/osse101/DegenSlots_Go/internal/metrics"
	"github.com/osse101/DegenSlots_Go/internal/randomness"
	"github.com/osse101/DegenSlots_Go/internal/spin"
	"github.com/osse101/DegenSlots_Go/internal/sse"
)

// Options configures the HTTP server
type Options struct {
	Port           int
	APIKey         string
	AdminAPIKey    string
	TrustedProxies []string
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance. store may be nil for the
// in-memory backend.
func NewServer(opts Options, store handler.Pinger, spinService spin.Service, provider randomness.Provider, eventlogService eventlog.Service, hub *sse.Hub) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, store, spinService, provider, eventlogService, hub),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the route tree
func NewRouter(opts Options, store handler.Pinger, spinService spin.Service, provider randomness.Provider, eventlogService eventlog.Service, hub *sse.Hub) http.Handler {
	handler.InitValidator()

	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(store))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	spinHandler := handler.NewSpinHandler(spinService)
	chipsHandler := handler.NewChipsHandler(spinService)
	loansHandler := handler.NewLoansHandler(spinService)
	callbackHandler := handler.NewCallbackHandler(spinService, provider)
	adminHandler := handler.NewAdminHandler(spinService)
	eventsHandler := handler.NewAdminEventsHandler(eventlogService)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/spins", func(r chi.Router) {
			r.Post("/", spinHandler.HandleOpenSpin)
			r.Get("/cost", spinHandler.HandleGetSpinCost)
			r.Get("/{"+handler.PathParamRequestID+"}", spinHandler.HandleGetSpin)
		})

		r.Route("/players/{"+handler.PathParamPlayer+"}", func(r chi.Router) {
			r.Get("/spins", spinHandler.HandleListPlayerSpins)
			r.Post("/withdraw", spinHandler.HandleWithdrawWinnings)
			r.Get("/stats", spinHandler.HandleGetPlayerStats)
			r.Post("/collateral/deposit", loansHandler.HandleDepositCollateral)
			r.Post("/collateral/withdraw", loansHandler.HandleWithdrawCollateral)
			r.Post("/borrow", loansHandler.HandleBorrowChips)
			r.Post("/repay", loansHandler.HandleRepayWithChips)
			r.Post("/repay-eth", loansHandler.HandleRepayWithETH)
			r.Get("/liquidity", loansHandler.HandleGetLiquidity)
		})

		r.Post("/randomness/callback", callbackHandler.HandleCallback)

		r.Route("/chips", func(r chi.Router) {
			r.Post("/buy", chipsHandler.HandleBuyChips)
			r.Post("/sell", chipsHandler.HandleSellChips)
			r.Get("/quote", chipsHandler.HandleQuoteChips)
		})

		r.Get("/stats", chipsHandler.HandleGetGameStats)

		if hub != nil {
			r.Get("/events/stream", sse.Handler(hub))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminKeyMiddleware(opts.AdminAPIKey, opts.TrustedProxies, detector))

			r.Post("/pause", adminHandler.HandlePause)
			r.Post("/unpause", adminHandler.HandleUnpause)
			r.Put("/payout-tables/{"+handler.PathParamReelCount+"}", adminHandler.HandleUpdatePayoutTable)
			r.Put("/pricing", adminHandler.HandleUpdatePricing)
			r.Put("/test-eth-price", adminHandler.HandleSetTestETHPrice)
			r.Post("/prize-pool/deposit", adminHandler.HandleDepositPrizePool)
			r.Post("/prize-pool/withdraw", adminHandler.HandleWithdrawPrizePool)
			r.Post("/treasury/withdraw", adminHandler.HandleWithdrawTreasury)
			r.Get("/events", eventsHandler.HandleGetEvents)
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// quietPaths are health and scrape endpoints that are not request-logged
var quietPaths = []string{"/healthz", "/readyz", "/metrics"}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lo.SomeBy(quietPaths, func(p string) bool { return strings.HasPrefix(r.URL.Path, p) }) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()

		traceID := logger.GenerateTraceID()
		w.Header().Set(HeaderTraceID, traceID)
		ctx := logger.WithTraceID(r.Context(), traceID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		log.Debug(LogMsgRequestHeaders, "headers", sanitizeHeaders(r.Header))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", lo.Ternary(ww.Status() == 0, http.StatusOK, ww.Status()),
			"bytes", ww.BytesWritten(),
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// sanitizeHeaders copies h with credentials redacted
func sanitizeHeaders(h http.Header) http.Header {
	sanitized := make(http.Header, len(h))
	for k, v := range h {
		if lo.ContainsBy(sensitiveHeaders, func(s string) bool { return strings.EqualFold(k, s) }) {
			sanitized[k] = []string{RedactedValue}
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
