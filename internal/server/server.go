// Package server assembles the PayShare HTTP handler: every Connect service,
// the interceptor chain, /metrics, CORS and request logging, served over
// h2c so HTTP/2 clients work without TLS.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/payshare/backend/internal/auth"
	"github.com/payshare/backend/internal/cache"
	"github.com/payshare/backend/internal/metrics"
	"github.com/payshare/backend/internal/middleware"
	"github.com/payshare/backend/internal/rpc"
	"github.com/payshare/backend/internal/service"
	"github.com/payshare/backend/internal/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Deps are the long-lived collaborators the handler is built from.
type Deps struct {
	Store         *sqlite.SQLiteStore
	Cache         cache.Cache
	Metrics       *metrics.Metrics
	JWT           *auth.JWTManager
	Authenticator auth.Authenticator
	Logger        *slog.Logger
}

// NewHandler returns the full HTTP handler.
func NewHandler(d Deps) http.Handler {
	ledger := service.NewLedger(d.Store, d.Cache, d.Metrics, d.Logger)

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(d.Metrics),
		middleware.OptionalAuth(d.JWT),
		middleware.LoggingInterceptor(d.Logger),
	)

	mux := http.NewServeMux()
	mux.Handle(rpc.NewGroupServiceHandler(service.NewGroupService(d.Store, ledger, d.Logger), interceptors))
	mux.Handle(rpc.NewExpenseServiceHandler(service.NewExpenseService(d.Store, ledger, d.Logger), interceptors))
	mux.Handle(rpc.NewAuthServiceHandler(service.NewAuthService(d.Authenticator, d.JWT, d.Logger), interceptors))
	mux.Handle(rpc.NewHealthServiceHandler(service.NewHealthService(d.Store), interceptors))
	mux.Handle("GET /metrics", d.Metrics.Handler())

	return h2c.NewHandler(loggingMiddleware(d.Logger, corsMiddleware(mux)), &http2.Server{})
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loggingMiddleware logs every HTTP request at debug level; RPC outcomes are
// logged by the Connect interceptor.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
