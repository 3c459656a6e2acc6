// Package v1 implements the HTTP API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/vmunix/justpaste/internal/download"
	"github.com/vmunix/justpaste/internal/history"
)

// Banner is the plain-text body served at the root path.
const Banner = "JustPaste Backend Running!"

var contentTypes = map[download.Format]string{
	download.FormatMP4: "video/mp4",
	download.FormatMP3: "audio/mpeg",
	download.FormatJPG: "image/jpeg",
	download.FormatPNG: "image/png",
}

// Config holds API server configuration.
type Config struct {
	MaxConcurrentJobs int
	Version           string
}

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	cfg  Config
	jobs *jobLimiter
	log  *slog.Logger
}

// New creates a new API server. It fails if a required dependency is missing.
func New(deps ServerDeps, cfg Config, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		deps: deps,
		cfg:  cfg,
		jobs: newJobLimiter(cfg.MaxConcurrentJobs),
		log:  log,
	}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /download_get", s.downloadGet)
	mux.HandleFunc("GET /history", s.listHistory)
	mux.HandleFunc("GET /history/{id}", s.getHistory)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(Banner))
}

func (s *Server) downloadGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := download.JobRequest{
		URL:     q.Get("url"),
		Format:  q.Get("format"),
		Quality: q.Get("quality"),
	}
	if req.URL == "" || req.Format == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "Missing parameters")
		return
	}

	// The slot is held until the file has been served, so the number of
	// live workspaces stays bounded too.
	release, err := s.jobs.acquire(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Too many downloads in progress")
		return
	}
	defer release()

	res, err := s.deps.Downloader.Run(r.Context(), req)
	if err != nil {
		status, code := errorStatus(err)
		writeError(w, status, code, err.Error())
		return
	}
	defer func() { _ = res.Close() }()

	s.serveResult(w, r, res)
}

// serveResult streams the job's file as an attachment.
func (s *Server) serveResult(w http.ResponseWriter, r *http.Request, res *download.Result) {
	f, err := os.Open(res.Path)
	if err != nil {
		s.log.Error("open result failed", "job_id", res.JobID, "path", res.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "IO_ERROR", err.Error())
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "IO_ERROR", err.Error())
		return
	}

	name := res.DownloadName()
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if ct, ok := contentTypes[res.Format]; ok {
		w.Header().Set("Content-Type", ct)
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// errorStatus maps a job error onto an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, download.ErrInvalidRequest):
		return http.StatusBadRequest, "MISSING_PARAMS"
	case errors.Is(err, download.ErrUnsupportedFormat):
		return http.StatusInternalServerError, "UNSUPPORTED_FORMAT"
	case errors.Is(err, download.ErrExtraction):
		return http.StatusInternalServerError, "EXTRACTION_FAILED"
	case errors.Is(err, download.ErrFileNotFound):
		return http.StatusInternalServerError, "FILE_NOT_FOUND"
	case errors.Is(err, download.ErrWorkspace):
		return http.StatusInternalServerError, "IO_ERROR"
	default:
		return http.StatusInternalServerError, "DOWNLOAD_FAILED"
	}
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	filter := history.Filter{Limit: queryInt(r, "limit", 0)}
	if format := r.URL.Query().Get("format"); format != "" {
		filter.Format = &format
	}

	records, err := s.deps.History.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	resp := make([]historyResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, historyToResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid history id")
		return
	}

	rec, err := s.deps.History.Get(id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "history record not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, historyToResponse(rec))
}

func historyToResponse(r *history.Record) historyResponse {
	return historyResponse{
		ID:         r.ID,
		URL:        r.URL,
		FileFormat: r.Format,
		Quality:    r.Quality,
		Timestamp:  formatHistoryTime(r.Timestamp),
	}
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Version: s.cfg.Version})
}
