package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Simonerrror/rubik-motion-lab/internal/queue"
)

type submitRenderRequest struct {
	AlgorithmID int64  `json:"algorithm_id" validate:"required,gt=0"`
	Quality     string `json:"quality" validate:"required"`
}

// submissionStatus maps a submission outcome to its HTTP status: a new
// job is a 202, anything already settled is a 200.
func submissionStatus(sub *queue.Submission) int {
	if sub.Action == queue.ActionQueued {
		return http.StatusAccepted
	}
	return http.StatusOK
}

// handleSubmitRender submits a render for an (algorithm, quality) pair
func (s *Server) handleSubmitRender(w http.ResponseWriter, r *http.Request) {
	var req submitRenderRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	sub, err := s.queue.Enqueue(r.Context(), req.AlgorithmID, req.Quality)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, submissionStatus(sub), sub)
}

type renderCaseRequest struct {
	Quality string `json:"quality" validate:"required"`
}

// handleRenderCase submits a render for the case's active algorithm
func (s *Server) handleRenderCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parsePathID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid case id")
		return
	}

	var req renderCaseRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	sub, err := s.queue.EnqueueForCase(r.Context(), caseID, req.Quality)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, submissionStatus(sub), sub)
}

// handleGetJob returns one render job by id
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := s.queue.Status(r.Context(), jobID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleRenderStatus reports cache and job state. Targets either
// ?algorithm_id= or ?case_id= (the case's active algorithm); with
// ?quality= it reports that tier, otherwise every tier plus recent
// jobs.
func (s *Server) handleRenderStatus(w http.ResponseWriter, r *http.Request) {
	algorithmParam := r.URL.Query().Get("algorithm_id")
	caseParam := r.URL.Query().Get("case_id")
	quality := r.URL.Query().Get("quality")

	switch {
	case algorithmParam != "":
		algorithmID, err := strconv.ParseInt(algorithmParam, 10, 64)
		if err != nil || algorithmID <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "invalid algorithm_id")
			return
		}
		if quality != "" {
			status, err := s.queue.StatusForKey(r.Context(), algorithmID, quality)
			if err != nil {
				s.serviceError(w, err)
				return
			}
			s.jsonResponse(w, http.StatusOK, status)
			return
		}
		overview, err := s.queue.StatusForAlgorithm(r.Context(), algorithmID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, overview)

	case caseParam != "":
		caseID, err := strconv.ParseInt(caseParam, 10, 64)
		if err != nil || caseID <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "invalid case_id")
			return
		}
		overview, err := s.queue.StatusForCase(r.Context(), caseID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, overview)

	default:
		s.errorResponse(w, http.StatusBadRequest, "algorithm_id or case_id is required")
	}
}
