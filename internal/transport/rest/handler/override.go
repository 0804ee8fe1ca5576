package handler

import (
	"encoding/json"
	"net/http"
	"pedtriage/internal/model"
	"pedtriage/internal/service"
	"pedtriage/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// OverrideHandler handles the clinician override endpoints
type OverrideHandler struct {
	triageSvc *service.TriageService
}

// NewOverrideHandler creates a new override handler
func NewOverrideHandler(triageSvc *service.TriageService) *OverrideHandler {
	return &OverrideHandler{triageSvc: triageSvc}
}

// OverrideRequest is the request body for logging an override
type OverrideRequest struct {
	Target    model.OverrideTarget `json:"target"`
	FindingID string               `json:"findingId,omitempty"`
	Reason    string               `json:"reason"`
}

// OverrideResponse carries the logged override and, for a phase gate
// bypass, the validation result of the forced advance
type OverrideResponse struct {
	Override   model.Override               `json:"override"`
	Validation *model.PhaseValidationResult `json:"validation,omitempty"`
}

// Create handles POST /v1/sessions/{id}/overrides
//
//	@Summary	Override a finding or force the phase gate
//	@Tags		overrides
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"session id"
//	@Param		request	body		OverrideRequest	true	"target and justification"
//	@Success	201		{object}	OverrideResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/overrides [post]
func (h *OverrideHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Target {
	case model.TargetFinding:
		if req.FindingID == "" {
			writeError(w, http.StatusBadRequest, "findingId is required")
			return
		}
		override, err := h.triageSvc.OverrideFinding(r.Context(), sessionID, req.FindingID, req.Reason, clinicianID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, OverrideResponse{Override: override})

	case model.TargetPhaseGate:
		override, validation, err := h.triageSvc.OverridePhaseGate(r.Context(), sessionID, req.Reason, clinicianID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, OverrideResponse{
			Override:   override,
			Validation: &validation,
		})

	default:
		writeError(w, http.StatusBadRequest, "target must be finding or phase_gate")
	}
}

// List handles GET /v1/sessions/{id}/overrides
//
//	@Summary	List the override log of a session
//	@Tags		overrides
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{array}		model.Override
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/overrides [get]
func (h *OverrideHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	overrides, err := h.triageSvc.Overrides(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if overrides == nil {
		overrides = []model.Override{}
	}

	writeJSON(w, http.StatusOK, overrides)
}
