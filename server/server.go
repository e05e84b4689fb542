// Package server exposes the library state, placement stats, a sweep
// trigger and prometheus metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	L "fftpeg/logger"
	"fftpeg/organize"
	"fftpeg/service"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	httpServer *http.Server
	svc        *service.Context
	sweeper    *organize.Sweeper
}

func New(addr string, svc *service.Context, sweeper *organize.Sweeper) *Server {
	s := &Server{svc: svc, sweeper: sweeper}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.stats)
		r.Get("/sources", s.listSources)
		r.Get("/tags", s.listTags)
		r.Get("/downloads", s.listDownloads)
		r.Get("/downloads/{id}", s.getDownload)
		r.Post("/sweep", s.sweep)
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		L.Info(fmt.Sprintf("server: listening on http://%s", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("server: could not shut down: %w", err)
	}
	L.Info("server: stopped")
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		L.Debug(fmt.Sprintf("server: %s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(started)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		L.Debug(fmt.Sprintf("server: could not write response: %v", err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
