package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"mediasales/internal/cache"
	"mediasales/internal/core"
	"mediasales/internal/report"
)

// BookingStore persists and retrieves bookings.
type BookingStore interface {
	CreateBooking(ctx context.Context, rec core.Record) (int64, error)
	GetBooking(ctx context.Context, id int64) (*core.Record, error)
}

// ReportProvider computes the report views served by the API.
type ReportProvider interface {
	SalesRollup(ctx context.Context, p report.Params) ([]report.RollupRow, error)
	InvoiceSummary(ctx context.Context, view report.InvoiceView, today time.Time) ([]report.InvoiceRow, error)
	ClientShare(ctx context.Context) (report.ClientShare, error)
}

type Server struct {
	http.Server
	bookings    BookingStore
	reports     ReportProvider
	rateLimiter *rateLimiter

	// Rendered report responses, keyed by path and query
	responseCache *cache.LRU[[]byte]
	cacheManager  *cache.Manager

	halfYearScope report.HalfYearScope

	// now is swappable in tests
	now func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and caching, returning a ready-to-run server.
func NewServer(addr string, bookings BookingStore, reports ReportProvider, cacheTTL time.Duration, halfYearScope report.HalfYearScope) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		bookings:      bookings,
		reports:       reports,
		rateLimiter:   newRateLimiter(),
		responseCache: cache.NewLRU[[]byte](200, cacheTTL),
		cacheManager:  cache.NewManager(),
		halfYearScope: halfYearScope,
		now:           time.Now,
	}

	s.cacheManager.Register(s.responseCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/reports/sales", s.withSecurityHeaders(s.handleSalesReport))
	mux.HandleFunc("/reports/invoices", s.withSecurityHeaders(s.handleInvoiceReport))
	mux.HandleFunc("/reports/client-share", s.withSecurityHeaders(s.handleClientShare))
	mux.HandleFunc("/bookings", s.withSecurityHeaders(s.handleCreateBooking))
	mux.HandleFunc("GET /bookings/{id}", s.withSecurityHeaders(s.handleGetBooking))

	return s
}

// Shutdown stops the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limiting applies to writes only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
