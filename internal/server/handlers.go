package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/lead-intel/internal/concierge"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Days int `json:"days"`
}

// handleAnalyze runs a fresh analysis over the trailing window. Days
// defaults to the standard 7-day window when absent.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := s.analysis.Run(r.Context(), req.Days)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleLastAnalysis returns the cached result without triggering a fetch.
func (s *Server) handleLastAnalysis(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.analysis.Last())
}

func (s *Server) handleTopCompany(w http.ResponseWriter, r *http.Request) {
	top, err := s.collector.TopCompany(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

type createProjectRequest struct {
	Name   string `json:"name"`
	LeadID string `json:"leadId"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := s.projects.Create(req.Name, req.LeadID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"projects": s.projects.List()})
}

type startRunRequest struct {
	Prompt string `json:"prompt"`
	// Stream is accepted for client compatibility; delivery is always via
	// the stream endpoint.
	Stream bool `json:"stream"`
}

// handleStartRun registers a concierge run and returns its id; the client
// then opens the stream endpoint to receive the reply.
func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var req startRunRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := s.manager.Start(req.Prompt)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"run_id": id})
}

// handleExecuteAction executes an action against a completed run. The body
// is the action object itself, as extracted from the transcript or edited
// by the dashboard.
func (s *Server) handleExecuteAction(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	var fields map[string]any
	if err := decodeBody(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	actionType, _ := fields["type"].(string)
	action := concierge.Action{Type: actionType, Fields: fields}

	result, err := s.manager.ExecuteAction(r.Context(), runID, action)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
}
