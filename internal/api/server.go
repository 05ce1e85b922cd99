// Package api serves the library over a local JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Resaura/NeonScan-v2/internal/config"
	"github.com/Resaura/NeonScan-v2/internal/library"
	"github.com/Resaura/NeonScan-v2/internal/logging"
)

// Actor is recorded on events written through the API.
const Actor = "api"

const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to the library.
type Server struct {
	lib     *library.Library
	logger  *zap.Logger
	limiter *rate.Limiter
	handler http.Handler
}

// New builds a server over lib limited to cfg.RateLimit requests per second.
func New(lib *library.Library, cfg config.APIConfig, logger *zap.Logger) *Server {
	s := &Server{
		lib:     lib.WithActor(Actor),
		logger:  logging.OrNop(logger),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
	}
	s.handler = s.requestID(s.logRequests(s.rateLimit(s.routes())))
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such route")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/documents", s.handleListDocuments).Methods(http.MethodGet)
	r.HandleFunc("/documents/recent", s.handleRecentDocuments).Methods(http.MethodGet)
	r.HandleFunc("/documents/assign", s.handleAssign).Methods(http.MethodPost)
	r.HandleFunc("/documents/{id:[0-9]+}", s.handleGetDocument).Methods(http.MethodGet)
	r.HandleFunc("/documents/{id:[0-9]+}", s.handleRenameDocument).Methods(http.MethodPatch)
	r.HandleFunc("/documents/{id:[0-9]+}", s.handleDeleteDocument).Methods(http.MethodDelete)
	r.HandleFunc("/documents/{id:[0-9]+}/file", s.handleDocumentFile).Methods(http.MethodGet)
	r.HandleFunc("/documents/{id:[0-9]+}/convert", s.handleConvert).Methods(http.MethodPost)
	r.HandleFunc("/documents/{id:[0-9]+}/edit", s.handleEdit).Methods(http.MethodPost)

	r.HandleFunc("/folders", s.handleListFolders).Methods(http.MethodGet)
	r.HandleFunc("/folders", s.handleCreateFolder).Methods(http.MethodPost)
	r.HandleFunc("/folders/reorder", s.handleReorderFolders).Methods(http.MethodPost)
	r.HandleFunc("/folders/{id:[0-9]+}", s.handleGetFolder).Methods(http.MethodGet)
	r.HandleFunc("/folders/{id:[0-9]+}", s.handleUpdateFolder).Methods(http.MethodPut)
	r.HandleFunc("/folders/{id:[0-9]+}", s.handleDeleteFolder).Methods(http.MethodDelete)

	r.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	return r
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	<-errCh
	s.logger.Info("api stopped")
	return nil
}
