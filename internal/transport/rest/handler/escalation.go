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

// EscalationHandler handles intervention attempts, boluses and timers
type EscalationHandler struct {
	triageSvc *service.TriageService
}

// NewEscalationHandler creates a new escalation handler
func NewEscalationHandler(triageSvc *service.TriageService) *EscalationHandler {
	return &EscalationHandler{triageSvc: triageSvc}
}

// AttemptRequest is the request body for logging an intervention attempt
type AttemptRequest struct {
	Success bool   `json:"success"`
	Note    string `json:"note,omitempty"`
}

// RecordAttempt handles POST /v1/sessions/{id}/interventions/{fid}/attempts
//
//	@Summary	Log an intervention attempt against a finding
//	@Tags		escalation
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"session id"
//	@Param		fid		path		string			true	"finding id"
//	@Param		request	body		AttemptRequest	true	"outcome"
//	@Success	200		{object}	model.InterventionState
//	@Failure	404		{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/interventions/{fid}/attempts [post]
func (h *EscalationHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	findingID := vars["fid"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req AttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intervention, err := h.triageSvc.RecordAttempt(r.Context(), sessionID, findingID, req.Success, req.Note, clinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, intervention)
}

// BolusRequest is the request body for recording a fluid bolus
type BolusRequest struct {
	VolumeML float64 `json:"volumeMl"`
}

// BolusBlockedResponse is returned when the cumulative cap refuses a bolus
type BolusBlockedResponse struct {
	Error string           `json:"error"`
	Bolus model.BolusState `json:"bolus"`
}

// RecordBolus handles POST /v1/sessions/{id}/boluses
//
//	@Summary	Record a fluid bolus volume
//	@Tags		escalation
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"session id"
//	@Param		request	body		BolusRequest	true	"volume in mL"
//	@Success	200		{object}	model.BolusState
//	@Failure	409		{object}	BolusBlockedResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/boluses [post]
func (h *EscalationHandler) RecordBolus(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req BolusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bolus, err := h.triageSvc.RecordBolus(r.Context(), sessionID, req.VolumeML, clinicianID)
	if errors.Is(err, engine.ErrBolusBlocked) {
		writeJSON(w, http.StatusConflict, BolusBlockedResponse{
			Error: err.Error(),
			Bolus: bolus,
		})
		return
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bolus)
}

// ReassessmentRequest is the request body for logging a reassessment
type ReassessmentRequest struct {
	Note string `json:"note"`
}

// RecordReassessment handles POST /v1/sessions/{id}/reassessments
//
//	@Summary	Log a patient reassessment
//	@Tags		escalation
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"session id"
//	@Param		request	body		ReassessmentRequest	true	"note"
//	@Success	201		{object}	model.Reassessment
//	@Failure	400		{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/reassessments [post]
func (h *EscalationHandler) RecordReassessment(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req ReassessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reassessment, err := h.triageSvc.RecordReassessment(r.Context(), sessionID, req.Note, clinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reassessment)
}

// State handles GET /v1/sessions/{id}/escalation
//
//	@Summary	Get the escalation picture of the session
//	@Tags		escalation
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	model.EscalationState
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/escalation [get]
func (h *EscalationHandler) State(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := h.triageSvc.Escalation(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Timers handles GET /v1/sessions/{id}/timers
//
//	@Summary	List countdowns of active critical findings
//	@Tags		escalation
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{array}		model.TimerState
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/timers [get]
func (h *EscalationHandler) Timers(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	timers, err := h.triageSvc.Timers(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, timers)
}
