// Package http exposes the application as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tirelire/internal/cache"
	"tirelire/internal/core"
	applog "tirelire/internal/log"
	"tirelire/internal/middleware/ratelimit"
	"tirelire/internal/middleware/security"
	"tirelire/internal/middleware/trace"
	"tirelire/internal/services"
	"tirelire/internal/store"
)

// Options configures the server.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	DashboardCacheTTL  time.Duration
	Logger             *applog.Logger
}

// Server wires the store, the report service and the middleware chain into
// one http.Server.
type Server struct {
	http.Server

	store   *store.Store
	reports *services.ReportService
	logger  *applog.Logger

	dashboardCache *cache.LRUCache[core.DashboardStats]
	cacheManager   *cache.Manager
	limiter        *ratelimit.Limiter
	resolver       *security.Resolver
	tracer         *trace.Middleware

	shutdownOnce sync.Once
}

const dashboardCacheSize = 256

func NewServer(st *store.Store, reports *services.ReportService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}
	if opts.DashboardCacheTTL <= 0 {
		opts.DashboardCacheTTL = 5 * time.Minute
	}

	resolver := security.NewResolver()
	s := &Server{
		store:          st,
		reports:        reports,
		logger:         opts.Logger,
		dashboardCache: cache.NewLRUCache[core.DashboardStats](dashboardCacheSize, opts.DashboardCacheTTL),
		cacheManager:   cache.NewManager(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		resolver: resolver,
		tracer:   trace.NewMiddleware(opts.Logger, resolver.ExtractClientIP),
	}
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("PUT /api/profile", s.handleUpdateProfile)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/savings", s.handleListGoals)
	mux.HandleFunc("POST /api/savings", s.handleCreateGoal)
	mux.HandleFunc("POST /api/savings/{id}/funds", s.handleAddFunds)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/reports", s.handleReports)
	mux.HandleFunc("GET /api/export", s.handleExport)

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(resolver.ExtractClientIP, s.onRateLimited)

	handler := s.tracer.Middleware(headers.Middleware(limited(mux)))

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, Envelope{
		Success: false,
		Error:   "rate limit exceeded",
	})
}

// currentSnapshot resolves the acting user for an authenticated endpoint.
func (s *Server) currentSnapshot(r *http.Request) (*store.Snapshot, error) {
	return s.store.CurrentSnapshot(r.Context())
}

// invalidateUserCaches drops cached views for one user after a mutation.
func (s *Server) invalidateUserCaches(userID string) {
	s.dashboardCache.DeletePrefix(userID + ":")
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz verifies the storage round trip is possible: a readable or
// still-empty blob store both count as ready.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Load(r.Context()); err != nil && statusFor(err) == http.StatusInternalServerError {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Shutdown stops background workers and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
	})
	return s.Server.Shutdown(ctx)
}
