package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/controllers"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
)

// PredictResponse is the reply of POST /api/predict.
type PredictResponse struct {
	Success   bool    `json:"success"`
	Calories  float64 `json:"calories"`
	Formatted string  `json:"formatted"`
}

// SubmitFeedbackResponse is the reply of POST /api/feedback.
type SubmitFeedbackResponse struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	Feedback *models.FeedbackRecord `json:"feedback,omitempty"`
}

// GetFeedbackResponse is the reply of GET /api/feedback.
type GetFeedbackResponse struct {
	Success  bool                    `json:"success"`
	Feedback []models.FeedbackRecord `json:"feedback"`
	Total    int                     `json:"total"`
}

// APIPredict runs one prediction from a JSON body.
func (h *Handler) APIPredict(w http.ResponseWriter, r *http.Request) {
	var in models.PredictionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	view := h.prediction.Predict(r.Context(), in)
	switch {
	case len(view.FieldErrors) > 0:
		writeJSON(w, r, http.StatusBadRequest, APIResponse{Success: false, Message: view.Error, Errors: view.FieldErrors})
	case view.Result == nil:
		writeError(w, r, http.StatusInternalServerError, view.Error)
	default:
		writeJSON(w, r, http.StatusOK, PredictResponse{
			Success:   true,
			Calories:  view.Result.Calories,
			Formatted: view.Result.Formatted(),
		})
	}
}

// APISubmitFeedback stores one feedback entry from a JSON body.
func (h *Handler) APISubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var in models.FeedbackInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	out := h.feedback.Submit(r.Context(), in)
	switch out.Status {
	case controllers.SubmitSaved:
		writeJSON(w, r, http.StatusCreated, SubmitFeedbackResponse{Success: true, Message: out.Message, Feedback: out.Record})
	case controllers.SubmitInvalid:
		writeJSON(w, r, http.StatusBadRequest, APIResponse{Success: false, Message: out.Message, Errors: out.FieldErrors})
	default:
		writeError(w, r, http.StatusInternalServerError, out.Message)
	}
}

// APIListFeedback returns the most recent feedback, newest first.
func (h *Handler) APIListFeedback(w http.ResponseWriter, r *http.Request) {
	limit := h.feedback.RecentLimit()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxFeedbackListLimit)
	}

	recent := h.feedback.List(r.Context(), limit)
	if recent.Error != "" {
		writeError(w, r, http.StatusInternalServerError, recent.Error)
		return
	}
	writeJSON(w, r, http.StatusOK, GetFeedbackResponse{
		Success:  true,
		Feedback: recent.Records,
		Total:    len(recent.Records),
	})
}
