package handler

import (
	"net/http"
	"pedtriage/internal/model"
	"pedtriage/internal/service"
	"strconv"

	"github.com/gorilla/mux"
)

// RecordHandler serves the archived views: event logs and audit queries
type RecordHandler struct {
	sessionSvc *service.SessionService
	triageSvc  *service.TriageService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(sessionSvc *service.SessionService, triageSvc *service.TriageService) *RecordHandler {
	return &RecordHandler{sessionSvc: sessionSvc, triageSvc: triageSvc}
}

// Events handles GET /v1/sessions/{id}/events
//
//	@Summary	Read the archived event log of a session
//	@Tags		records
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{array}		model.SessionEvent
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/events [get]
func (h *RecordHandler) Events(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	events, err := h.sessionSvc.Events(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []*model.SessionEvent{}
	}

	writeJSON(w, http.StatusOK, events)
}

// FlaggedOverrides handles GET /v1/overrides/flagged
//
//	@Summary	List recent critical overrides across sessions
//	@Tags		records
//	@Produce	json
//	@Param		limit	query		int	false	"max entries"	default(50)
//	@Success	200		{array}		model.Override
//	@Router		/overrides/flagged [get]
func (h *RecordHandler) FlaggedOverrides(w http.ResponseWriter, r *http.Request) {
	limit := int64(50)
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	overrides, err := h.triageSvc.FlaggedOverrides(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if overrides == nil {
		overrides = []*model.Override{}
	}

	writeJSON(w, http.StatusOK, overrides)
}
