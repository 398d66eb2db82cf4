package server

import (
	"net/http"
	"strconv"

	"github.com/Simonerrror/rubik-motion-lab/internal/catalog"
)

// parsePathID parses the {id} path segment as an int64.
func parsePathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleListCategories lists the catalog categories
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"categories": categories})
}

// handleListCases lists the cases of one group with their active
// algorithms
func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := s.catalog.ListCases(r.Context(), r.PathValue("group"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"cases": cases})
}

// handleListReference returns the recognition/probability reference for
// one group
func (s *Server) handleListReference(w http.ResponseWriter, r *http.Request) {
	sets, err := s.catalog.ListReferenceSets(r.Context(), r.PathValue("group"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sets": sets})
}

// handleGetCase returns one case with all of its algorithms
func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parsePathID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid case id")
		return
	}

	cs, algorithms, err := s.catalog.GetCase(r.Context(), caseID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"case":       cs,
		"algorithms": algorithms,
	})
}

type activateRequest struct {
	AlgorithmID int64 `json:"algorithm_id" validate:"required,gt=0"`
}

// handleActivateAlgorithm makes an algorithm the case's active one
func (s *Server) handleActivateAlgorithm(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parsePathID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid case id")
		return
	}

	var req activateRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if err := s.catalog.ActivateAlgorithm(r.Context(), caseID, req.AlgorithmID); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"case_id":      caseID,
		"algorithm_id": req.AlgorithmID,
	})
}

type createAlgorithmRequest struct {
	Formula     string `json:"formula" validate:"required"`
	DisplayName string `json:"display_name,omitempty"`
	Activate    bool   `json:"activate,omitempty"`
}

// handleCreateCustomAlgorithm adds a user-supplied algorithm to a case
func (s *Server) handleCreateCustomAlgorithm(w http.ResponseWriter, r *http.Request) {
	caseID, ok := parsePathID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid case id")
		return
	}

	var req createAlgorithmRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	alg, err := s.catalog.CreateCustomAlgorithm(r.Context(), catalog.CustomAlgorithmInput{
		CaseID:      caseID,
		Formula:     req.Formula,
		DisplayName: req.DisplayName,
		Activate:    req.Activate,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, alg)
}

type standaloneAlgorithmRequest struct {
	Group       string `json:"group" validate:"required"`
	CaseCode    string `json:"case_code" validate:"required"`
	Title       string `json:"title,omitempty"`
	Formula     string `json:"formula" validate:"required"`
	DisplayName string `json:"display_name,omitempty"`
	Activate    bool   `json:"activate,omitempty"`
}

// handleCreateStandaloneAlgorithm adds an algorithm to a case addressed
// by code, creating the case when it does not exist yet
func (s *Server) handleCreateStandaloneAlgorithm(w http.ResponseWriter, r *http.Request) {
	var req standaloneAlgorithmRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	alg, err := s.catalog.CreateStandaloneAlgorithm(r.Context(), catalog.StandaloneAlgorithmInput{
		Group:       req.Group,
		CaseCode:    req.CaseCode,
		Title:       req.Title,
		Formula:     req.Formula,
		DisplayName: req.DisplayName,
		Activate:    req.Activate,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, alg)
}

// handleListAlgorithms lists algorithms, optionally filtered by
// ?group=
func (s *Server) handleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	algorithms, err := s.catalog.ListAlgorithms(r.Context(), r.URL.Query().Get("group"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"algorithms": algorithms})
}

// handleGetAlgorithm returns one algorithm
func (s *Server) handleGetAlgorithm(w http.ResponseWriter, r *http.Request) {
	algorithmID, ok := parsePathID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid algorithm id")
		return
	}

	alg, err := s.catalog.GetAlgorithm(r.Context(), algorithmID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, alg)
}

type progressRequest struct {
	Status string `json:"status" validate:"required"`
}

// handleSetProgress updates an algorithm's learning progress
func (s *Server) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	algorithmID, ok := parsePathID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid algorithm id")
		return
	}

	var req progressRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if err := s.catalog.SetProgress(r.Context(), algorithmID, req.Status); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"algorithm_id": algorithmID,
		"status":       req.Status,
	})
}

type formulaRequest struct {
	Formula string `json:"formula" validate:"required"`
}

// handleUpdateFormula replaces an algorithm's formula
func (s *Server) handleUpdateFormula(w http.ResponseWriter, r *http.Request) {
	algorithmID, ok := parsePathID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid algorithm id")
		return
	}

	var req formulaRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if err := s.catalog.UpdateFormula(r.Context(), algorithmID, req.Formula); err != nil {
		s.serviceError(w, err)
		return
	}

	alg, err := s.catalog.GetAlgorithm(r.Context(), algorithmID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, alg)
}

// handleDeleteAlgorithm removes an algorithm and its clips
func (s *Server) handleDeleteAlgorithm(w http.ResponseWriter, r *http.Request) {
	algorithmID, ok := parsePathID(r)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "invalid algorithm id")
		return
	}

	if err := s.catalog.DeleteAlgorithm(r.Context(), algorithmID); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"deleted": algorithmID})
}
