package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/controllers"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/logging"
)

// MaxFeedbackListLimit caps GET /api/feedback?limit=.
const MaxFeedbackListLimit = 50

// Handler serves the pages and the JSON API on top of the controllers.
type Handler struct {
	prediction *controllers.PredictionController
	feedback   *controllers.FeedbackController
	pages      *Renderer
}

func New(prediction *controllers.PredictionController, feedback *controllers.FeedbackController) (*Handler, error) {
	pages, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{prediction: prediction, feedback: feedback, pages: pages}, nil
}

// APIResponse is the envelope of every JSON reply.
type APIResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, APIResponse{Success: false, Message: message})
}

// Health answers liveness checks.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
