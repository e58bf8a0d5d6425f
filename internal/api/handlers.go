package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eisbaw/rule72/internal/pipeline"
	"github.com/eisbaw/rule72/internal/reflow"
)

type reflowRequest struct {
	Message       string `json:"message"`
	Width         int    `json:"width"`
	HeadlineWidth int    `json:"headline_width"`
}

type batchRequest struct {
	Messages      []string `json:"messages"`
	Width         int      `json:"width"`
	HeadlineWidth int      `json:"headline_width"`
}

// handleReflow reformats a single commit message synchronously. A JSON
// body carries message and widths; any other content type is treated as
// the raw message itself, with widths taken from query parameters.
func (s *Server) handleReflow(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req reflowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
		out := reflow.Reflow(req.Message, s.options(req.Width, req.HeadlineWidth))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"result": out})
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	opts := s.options(queryInt(r, "width"), queryInt(r, "headline_width"))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, reflow.Reflow(string(data), opts))
}

// handleBatch queues a batch job and returns a poll URL.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		jsonError(w, "messages is required", http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(req.Messages, s.options(req.Width, req.HeadlineWidth))
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/reflow/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// options resolves request widths against the configured defaults.
func (s *Server) options(width, headlineWidth int) reflow.Options {
	opts := reflow.Options{
		BodyWidth:     s.cfg.BodyWidth,
		HeadlineWidth: s.cfg.HeadlineWidth,
	}
	if width > 0 {
		opts.BodyWidth = width
	}
	if headlineWidth > 0 {
		opts.HeadlineWidth = headlineWidth
	}
	return opts
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0
	}
	return n
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
