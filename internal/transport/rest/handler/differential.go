package handler

import (
	"net/http"
	"pedtriage/internal/service"

	"github.com/gorilla/mux"
)

// DifferentialHandler handles the differential ranking endpoint
type DifferentialHandler struct {
	triageSvc *service.TriageService
}

// NewDifferentialHandler creates a new differential handler
func NewDifferentialHandler(triageSvc *service.TriageService) *DifferentialHandler {
	return &DifferentialHandler{triageSvc: triageSvc}
}

// Rank handles GET /v1/sessions/{id}/differentials
//
//	@Summary	Rank differentials against the accumulated evidence
//	@Tags		differentials
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	model.RankedDifferentials
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/differentials [get]
func (h *DifferentialHandler) Rank(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	ranked, err := h.triageSvc.Differentials(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ranked)
}
