package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/unrolled/logger"

	"github.com/five82/tripbar/internal/state"
	"github.com/five82/tripbar/internal/status"
)

const (
	shutdownTimeout = 5 * time.Second
	refreshTimeout  = 30 * time.Second
)

// SnapshotSource yields the current indicator contents.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// Refresher triggers an immediate refresh.
type Refresher interface {
	Refresh(ctx context.Context) status.Resolution
}

// Server exposes the current trip status over HTTP.
type Server struct {
	store     SnapshotSource
	refresher Refresher
	router    *mux.Router
}

// New builds the router. A nil refresher disables POST /api/refresh.
func New(store SnapshotSource, refresher Refresher) *Server {
	s := &Server{store: store, refresher: refresher, router: mux.NewRouter()}

	l := logger.New(logger.Options{
		Prefix:      "statusapi",
		Out:         log.Writer(),
		OutputFlags: log.LstdFlags,
	})
	s.router.Use(l.Handler)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	if refresher != nil {
		api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	}
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("status api listening on http://%s/", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("status api shutdown: %v", err)
		}
		return nil
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStatusView(s.store.Snapshot()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()
	s.refresher.Refresh(ctx)
	writeJSON(w, http.StatusOK, newStatusView(s.store.Snapshot()))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("status api: encode response: %v", err)
	}
}
