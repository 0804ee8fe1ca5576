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

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// CreateSessionRequest is the request body for starting an encounter
type CreateSessionRequest struct {
	Patient model.PatientContext `json:"patient"`
}

// CreateSessionResponse carries the new session and the lead token
type CreateSessionResponse struct {
	Session model.Session        `json:"session"`
	Token   *model.TokenResponse `json:"token"`
}

// Create handles POST /v1/sessions
//
//	@Summary	Start a triage session
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateSessionRequest	true	"patient context"
//	@Success	201		{object}	CreateSessionResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, token, err := h.sessionSvc.Create(r.Context(), req.Patient)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		Session: state.Session,
		Token:   token,
	})
}

// JoinRequest is the request body for joining a session
type JoinRequest struct {
	ClinicianID string `json:"clinicianId,omitempty"`
}

// Join handles POST /v1/sessions/{id}/join
//
//	@Summary	Join a session as an observer
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"session id"
//	@Param		request	body		JoinRequest	false	"clinician identity"
//	@Success	200		{object}	model.TokenResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/sessions/{id}/join [post]
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req JoinRequest
	if r.Body != nil {
		// body is optional, a generated clinician id is fine
		json.NewDecoder(r.Body).Decode(&req)
	}

	token, err := h.sessionSvc.Join(r.Context(), sessionID, req.ClinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

// Get handles GET /v1/sessions/{id}
//
//	@Summary	Read the full session state
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	model.SessionState
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := h.sessionSvc.Get(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Close handles POST /v1/sessions/{id}/close
//
//	@Summary	Close an encounter and archive its record
//	@Tags		sessions
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	model.SessionState
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/close [post]
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	state, err := h.sessionSvc.Close(r.Context(), sessionID, clinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// UpdatePatientRequest is the request body for a patient context edit
type UpdatePatientRequest struct {
	Patient model.PatientContext `json:"patient"`
	Reason  string               `json:"reason"`
}

// UpdatePatient handles PATCH /v1/sessions/{id}/patient
//
//	@Summary	Correct the patient context (logged edit)
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"session id"
//	@Param		request	body		UpdatePatientRequest	true	"new context and reason"
//	@Success	200		{object}	model.SessionState
//	@Failure	400		{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/patient [patch]
func (h *SessionHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.sessionSvc.UpdatePatient(r.Context(), sessionID, req.Patient, req.Reason, clinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Helper functions

// ErrorResponse is the error body every endpoint returns
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeEngineError maps engine and service errors onto HTTP statuses.
// Clinical refusals (closed gates, blocked boluses) are conflicts, not bad
// requests: the request was well formed, the state forbids it.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, engine.ErrUnknownDrug),
		errors.Is(err, engine.ErrUnknownDoseKey),
		errors.Is(err, engine.ErrUnknownField),
		errors.Is(err, engine.ErrUnknownFinding):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, engine.ErrSessionClosed),
		errors.Is(err, engine.ErrFlowComplete),
		errors.Is(err, engine.ErrAssessmentDone),
		errors.Is(err, engine.ErrPhaseBlocked),
		errors.Is(err, engine.ErrGateClear),
		errors.Is(err, engine.ErrFindingSettled),
		errors.Is(err, engine.ErrNotResolvable),
		errors.Is(err, engine.ErrBolusBlocked):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, engine.ErrInvalidWeight),
		errors.Is(err, engine.ErrInvalidVolume),
		errors.Is(err, engine.ErrInvalidPatient),
		errors.Is(err, engine.ErrReasonRequired),
		errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		var mismatch *engine.QuestionMismatchError
		var answerType *engine.AnswerTypeError
		var fieldType *engine.FieldTypeError
		var unknownOption *engine.UnknownOptionError
		var rangeErr *engine.RangeError
		if errors.As(err, &mismatch) || errors.As(err, &answerType) ||
			errors.As(err, &fieldType) || errors.As(err, &unknownOption) ||
			errors.As(err, &rangeErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
