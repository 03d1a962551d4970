package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server is the webhook HTTP server. Signature verification and payload
// interpretation run on the request path; the deployment itself runs on
// a detached task so the caller's short delivery timeout is never hit.
type Server struct {
	config     Config
	resolver   TargetResolver
	dispatcher DeployDispatcher
	skipper    SkipNotifier
	logger     *slog.Logger
	server     *http.Server
}

// New creates a new webhook server instance.
func New(config Config, resolver TargetResolver, dispatcher DeployDispatcher, skipper SkipNotifier, logger *slog.Logger) *Server {
	return &Server{
		config:     config,
		resolver:   resolver,
		dispatcher: dispatcher,
		skipper:    skipper,
		logger:     logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.config.Listen)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// Routes returns the configured HTTP handler.
func (s *Server) Routes() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post("/api/ad", s.handleDeploy)
	r.Get("/api/status", s.handleStatus)

	return r
}

// loggingMiddleware logs HTTP requests (excludes payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleStatus responds to unauthenticated liveness probes.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleDeploy handles incoming webhook POST requests. Authentication
// always precedes payload interpretation.
func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	limitedReader := io.LimitReader(r.Body, MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if err := VerifySignature(s.config.Secret(), body, signature); err != nil {
		he := AsError(err)
		s.logger.Warn("webhook signature verification failed",
			"path", r.URL.Path,
			"error", err,
		)
		s.respondError(w, he.Status(), he.Message)
		return
	}

	event, err := ParseEvent(body)
	if err != nil {
		he := AsError(err)
		s.logger.Warn("webhook payload rejected", "error", err)
		s.respondError(w, he.Status(), he.Message)
		return
	}

	if event.Action != "closed" {
		s.logger.Info("ignoring webhook event", "repo", event.Repo, "action", event.Action)
		s.respondJSON(w, http.StatusOK, AckResponse{Status: "nothing to do"})
		return
	}

	deliveryID := uuid.NewString()

	if !event.IsMerged() {
		s.logger.Info("pull request closed without merge",
			"repo", event.Repo,
			"delivery_id", deliveryID,
		)
		go s.skipper.NotifySkip(event.Repo, deliveryID)
		s.respondJSON(w, http.StatusOK, AckResponse{
			Status:     "not merged, no deployment attempted",
			DeliveryID: deliveryID,
		})
		return
	}

	target, err := s.resolver.Resolve(event.Repo)
	if err != nil {
		he := AsError(ValidationError(fmt.Sprintf("%s is not configured for automated deployment", event.Repo)))
		s.logger.Warn("repository not configured", "repo", event.Repo)
		s.respondError(w, he.Status(), he.Message)
		return
	}

	// Respond before the run: the delivery timeout is far shorter than
	// any playbook. Outcome travels by mail only.
	s.dispatcher.Dispatch(target, deliveryID)

	s.logger.Info("deployment dispatched",
		"repo", event.Repo,
		"target", target,
		"delivery_id", deliveryID,
	)

	s.respondJSON(w, http.StatusOK, AckResponse{
		Status:     fmt.Sprintf("redeployment will be attempted, result will be mailed to %s", strings.Join(s.config.Recipients, ", ")),
		DeliveryID: deliveryID,
		Recipients: s.config.Recipients,
	})
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
