// Package server provides the HTTP REST API over the catalog and the
// render queue.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Simonerrror/rubik-motion-lab/internal/catalog"
	"github.com/Simonerrror/rubik-motion-lab/internal/queue"
)

// Config holds server configuration.
type Config struct {
	Port int
}

// Server is the HTTP server.
type Server struct {
	httpServer *http.Server
	catalog    *catalog.Service
	queue      *queue.Service
	logger     *zap.Logger
	validate   *validator.Validate
}

// New creates a server over the catalog and queue services.
func New(cfg Config, catalogSvc *catalog.Service, queueSvc *queue.Service, logger *zap.Logger) *Server {
	s := &Server{
		catalog:  catalogSvc,
		queue:    queueSvc,
		logger:   logger,
		validate: validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("GET /groups/{group}/cases", s.handleListCases)
	mux.HandleFunc("GET /groups/{group}/reference", s.handleListReference)

	mux.HandleFunc("GET /cases/{id}", s.handleGetCase)
	mux.HandleFunc("POST /cases/{id}/activate", s.handleActivateAlgorithm)
	mux.HandleFunc("POST /cases/{id}/algorithms", s.handleCreateCustomAlgorithm)
	mux.HandleFunc("POST /cases/{id}/render", s.handleRenderCase)

	mux.HandleFunc("GET /algorithms", s.handleListAlgorithms)
	mux.HandleFunc("POST /algorithms", s.handleCreateStandaloneAlgorithm)
	mux.HandleFunc("GET /algorithms/{id}", s.handleGetAlgorithm)
	mux.HandleFunc("PUT /algorithms/{id}/progress", s.handleSetProgress)
	mux.HandleFunc("PUT /algorithms/{id}/formula", s.handleUpdateFormula)
	mux.HandleFunc("DELETE /algorithms/{id}", s.handleDeleteAlgorithm)

	mux.HandleFunc("POST /render/jobs", s.handleSubmitRender)
	mux.HandleFunc("GET /render/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /render/status", s.handleRenderStatus)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service error onto its HTTP status.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeRequest parses and validates a JSON request body.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}
