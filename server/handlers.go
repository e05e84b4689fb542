package server

import (
	"errors"
	"fftpeg/database"
	"fftpeg/database/model"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DB.D.PingContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "fail", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Organizer.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.svc.Downloads.AllSources(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sources)
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.svc.Downloads.AllTags(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// ?tag= or ?source= narrow the listing
func (s *Server) listDownloads(w http.ResponseWriter, r *http.Request) {
	var downloads []model.Download
	var err error
	tag := r.URL.Query().Get("tag")
	source := r.URL.Query().Get("source")
	switch {
	case tag != "" && source != "":
		writeError(w, http.StatusBadRequest, errors.New("use either tag or source"))
		return
	case tag != "":
		downloads, err = s.svc.Downloads.FilesByTag(r.Context(), tag)
	case source != "":
		downloads, err = s.svc.Downloads.FilesBySource(r.Context(), source)
	default:
		downloads, err = s.svc.Downloads.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, downloads)
}

type downloadResponse struct {
	model.Download
	Tags []model.FileTag `json:"tags"`
}

func (s *Server) getDownload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid id: %w", err))
		return
	}
	d, err := s.svc.Downloads.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrDoesNotExist) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	tags, err := s.svc.Tags.FileTags(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{Download: *d, Tags: tags})
}

type sweepResponse struct {
	Removed int    `json:"removed"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	var resp sweepResponse
	var err error
	if s.sweeper != nil {
		resp.Removed, resp.Skipped, err = s.sweeper.RunOnce()
	} else {
		resp.Removed, err = s.svc.Organizer.SweepBroken()
	}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}
