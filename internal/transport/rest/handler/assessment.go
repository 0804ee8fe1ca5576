package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"pedtriage/internal/engine"
	"pedtriage/internal/model"
	"pedtriage/internal/service"
	"pedtriage/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// AssessmentHandler handles the phased assessment endpoints
type AssessmentHandler struct {
	triageSvc *service.TriageService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(triageSvc *service.TriageService) *AssessmentHandler {
	return &AssessmentHandler{triageSvc: triageSvc}
}

// Phase handles GET /v1/sessions/{id}/phase
//
//	@Summary	Get the current phase with observations and validation
//	@Tags		assessment
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	service.PhaseView
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/phase [get]
func (h *AssessmentHandler) Phase(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	view, err := h.triageSvc.Phase(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// ObservationRequest is the request body for recording an observed value
type ObservationRequest struct {
	Field string            `json:"field"`
	Value model.AnswerValue `json:"value"`
}

// RecordObservation handles POST /v1/sessions/{id}/observations
//
//	@Summary	Record one observed value
//	@Tags		assessment
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"session id"
//	@Param		request	body		ObservationRequest	true	"field and value"
//	@Success	200		{object}	service.ObservationResult
//	@Failure	400		{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/observations [post]
func (h *AssessmentHandler) RecordObservation(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req ObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, "field is required")
		return
	}

	result, err := h.triageSvc.RecordObservation(r.Context(), sessionID, req.Field, req.Value, clinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// BlockedResponse is returned when the phase gate refuses to open
type BlockedResponse struct {
	Error      string                      `json:"error"`
	Validation model.PhaseValidationResult `json:"validation"`
}

// Advance handles POST /v1/sessions/{id}/phase/advance
//
//	@Summary	Complete the current phase and enter the next
//	@Tags		assessment
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	model.PhaseValidationResult
//	@Failure	409	{object}	BlockedResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/phase/advance [post]
func (h *AssessmentHandler) Advance(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	result, err := h.triageSvc.AdvancePhase(r.Context(), sessionID, clinicianID)
	if errors.Is(err, engine.ErrPhaseBlocked) {
		// return what is in the way so the display can show it
		writeJSON(w, http.StatusConflict, BlockedResponse{
			Error:      err.Error(),
			Validation: result,
		})
		return
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Findings handles GET /v1/sessions/{id}/findings
//
//	@Summary	List every finding of the session
//	@Tags		assessment
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{array}		model.Finding
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/findings [get]
func (h *AssessmentHandler) Findings(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	findings, err := h.triageSvc.Findings(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if findings == nil {
		findings = []model.Finding{}
	}

	writeJSON(w, http.StatusOK, findings)
}

// ResolveRequest is the request body for resolving a finding
type ResolveRequest struct {
	Note string `json:"note,omitempty"`
}

// ResolveFinding handles POST /v1/sessions/{id}/findings/{fid}/resolve
//
//	@Summary	Resolve an active finding
//	@Tags		assessment
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"session id"
//	@Param		fid		path		string			true	"finding id"
//	@Param		request	body		ResolveRequest	false	"resolution note"
//	@Success	200		{object}	model.Finding
//	@Failure	409		{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/findings/{fid}/resolve [post]
func (h *AssessmentHandler) ResolveFinding(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	findingID := vars["fid"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req ResolveRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	finding, err := h.triageSvc.ResolveFinding(r.Context(), sessionID, findingID, req.Note, clinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, finding)
}
