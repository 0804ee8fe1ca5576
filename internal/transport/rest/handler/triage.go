package handler

import (
	"encoding/json"
	"net/http"
	"pedtriage/internal/model"
	"pedtriage/internal/service"
	"pedtriage/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
)

// TriageHandler handles the question flow endpoints
type TriageHandler struct {
	triageSvc *service.TriageService
}

// NewTriageHandler creates a new triage handler
func NewTriageHandler(triageSvc *service.TriageService) *TriageHandler {
	return &TriageHandler{triageSvc: triageSvc}
}

// CurrentQuestionResponse is the current position in the question flow
type CurrentQuestionResponse struct {
	Question *model.Question `json:"question"`
	Done     bool            `json:"done"`
}

// CurrentQuestion handles GET /v1/sessions/{id}/question
//
//	@Summary	Get the question to ask next
//	@Tags		triage
//	@Produce	json
//	@Param		id	path		string	true	"session id"
//	@Success	200	{object}	CurrentQuestionResponse
//	@Failure	404	{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/question [get]
func (h *TriageHandler) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	question, err := h.triageSvc.CurrentQuestion(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CurrentQuestionResponse{
		Question: question,
		Done:     question == nil,
	})
}

// SubmitAnswerRequest is the request body for answering the current question
type SubmitAnswerRequest struct {
	QuestionID string            `json:"questionId"`
	Value      model.AnswerValue `json:"value"`
}

// SubmitAnswer handles POST /v1/sessions/{id}/answers
//
//	@Summary	Answer the current triage question
//	@Tags		triage
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"session id"
//	@Param		request	body		SubmitAnswerRequest	true	"answer"
//	@Success	200		{object}	model.AnswerResult
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	SessionToken
//	@Router		/sessions/{id}/answers [post]
func (h *TriageHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	clinicianID := middleware.GetClinicianID(r.Context())

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}

	result, err := h.triageSvc.SubmitAnswer(r.Context(), sessionID, req.QuestionID, req.Value, clinicianID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
