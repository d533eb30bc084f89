// Package server provides the HTTP REST API for the job tracker.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-tailor/internal/app"
	"github.com/jonathan/job-tailor/internal/server/ratelimit"
)

// Config holds server configuration.
type Config struct {
	Port int
	// DefaultUser is the scope applied when a request carries no X-User
	// header. Single-user deployments never send the header.
	DefaultUser string
}

// Server is the HTTP front end over the application service.
type Server struct {
	httpServer  *http.Server
	svc         *app.Service
	sessions    *app.Sessions
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	defaultUser string
}

// New creates a server around an already-wired application service.
func New(cfg Config, svc *app.Service) *Server {
	s := &Server{
		svc:         svc,
		sessions:    app.NewSessions(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
		defaultUser: cfg.DefaultUser,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /resumes", s.handleCreateResume)
	mux.HandleFunc("GET /resumes", s.handleListResumes)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("GET /resumes/{id}/export", s.handleExportResume)

	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("POST /jobs/extract", s.handleExtractJob)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("PUT /jobs/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("PUT /jobs/{id}/dates", s.handleUpdateDates)

	mux.HandleFunc("POST /jobs/{id}/tailor", s.handleTailor)
	mux.HandleFunc("GET /jobs/{id}/versions", s.handleListVersions)
	mux.HandleFunc("POST /jobs/{id}/versions", s.handleSaveVersion)

	mux.HandleFunc("GET /reports/jobs", s.handleJobsReport)
	mux.HandleFunc("GET /reports/jobs.csv", s.handleJobsReportCSV)
	mux.HandleFunc("GET /reports/followups", s.handleFollowupsDue)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the composed handler chain, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// user resolves the request's user scope.
func (s *Server) user(r *http.Request) string {
	if u := r.Header.Get("X-User"); u != "" {
		return u
	}
	return s.defaultUser
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit applies the per-client token buckets.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":     "rate_limit_exceeded",
				"limit":     info.Limit,
				"remaining": info.Remaining,
				"reset_at":  info.ResetTime.Format(time.RFC3339),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse maps err to a status and writes it as JSON.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), map[string]string{"error": err.Error()})
}

// badRequest writes a 400 with message.
func (s *Server) badRequest(w http.ResponseWriter, message string) {
	s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": message})
}
