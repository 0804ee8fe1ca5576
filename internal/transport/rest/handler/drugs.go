package handler

import (
	"encoding/json"
	"net/http"
	"pedtriage/internal/engine"
	"pedtriage/internal/protocol"
	"pedtriage/internal/service"
	"pedtriage/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// DrugHandler serves the drug reference and the dose calculators
type DrugHandler struct {
	pack      *protocol.Pack
	triageSvc *service.TriageService
}

// NewDrugHandler creates a new drug handler
func NewDrugHandler(pack *protocol.Pack, triageSvc *service.TriageService) *DrugHandler {
	return &DrugHandler{pack: pack, triageSvc: triageSvc}
}

// List handles GET /v1/drugs
//
//	@Summary	List the drugs of the loaded protocol pack
//	@Tags		drugs
//	@Produce	json
//	@Success	200	{array}	model.DoseSpec
//	@Router		/drugs [get]
func (h *DrugHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pack.Drugs)
}

// Get handles GET /v1/drugs/{id}
//
//	@Summary	Get one drug specification
//	@Tags		drugs
//	@Produce	json
//	@Param		id	path		string	true	"drug id"
//	@Success	200	{object}	model.DoseSpec
//	@Failure	404	{object}	ErrorResponse
//	@Router		/drugs/{id} [get]
func (h *DrugHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	drug := h.pack.Drug(id)
	if drug == nil {
		writeError(w, http.StatusNotFound, "drug not found")
		return
	}

	writeJSON(w, http.StatusOK, drug)
}

// DoseRequest is the request body for the stateless dose calculator
type DoseRequest struct {
	DrugID   string  `json:"drugId"`
	WeightKg float64 `json:"weightKg"`
	Option   string  `json:"option,omitempty"`
}

// Compute handles POST /v1/doses
//
// The stateless calculator for spot checks and drills; it archives
// nothing. Doses inside an encounter go through the session route.
//
//	@Summary	Compute a weight-based dose
//	@Tags		drugs
//	@Accept		json
//	@Produce	json
//	@Param		request	body		DoseRequest	true	"drug, weight, option"
//	@Success	200		{object}	model.Dose
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/doses [post]
func (h *DrugHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req DoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dose, err := engine.ComputeDose(h.pack, req.DrugID, req.WeightKg, req.Option)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dose)
}

// SessionDoseRequest is the request body for a dose within an encounter
type SessionDoseRequest struct {
	DrugID string `json:"drugId"`
	Option string `json:"option,omitempty"`
}

// ComputeForSession handles POST /v1/sessions/{id}/doses
//
//	@Summary	Compute a dose for the session patient
//	@Tags		drugs
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"session id"
//	@Param		request	body		SessionDoseRequest	true	"drug and option"
//	@Success	200		{object}	model.Dose
//	@Failure	404		{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/doses [post]
func (h *DrugHandler) ComputeForSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req SessionDoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dose, err := h.triageSvc.Dose(r.Context(), sessionID, req.DrugID, req.Option, clinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dose)
}
