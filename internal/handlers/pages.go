package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/controllers"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/validation"
)

// Index renders the page picked by the navigation select (?page=), Home by default.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page, _ := controllers.ParsePage(r.URL.Query().Get("page"))
	h.renderPage(w, r, page)
}

func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, controllers.PageHome)
}

func (h *Handler) PredictionPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, controllers.PagePrediction)
}

// ContactPage lists recent feedback on every entry.
func (h *Handler) ContactPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, controllers.PageContact)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page controllers.Page) {
	data := pageData{Page: page}
	switch page {
	case controllers.PagePrediction:
		data.Prediction = h.prediction.Form()
	case controllers.PageContact:
		data.Contact = h.feedback.Enter(r.Context())
	}
	h.pages.Render(w, r, http.StatusOK, data)
}

// Predict handles the prediction form post.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	in, verr := parsePredictionForm(r)
	var view controllers.PredictionView
	if verr != nil {
		view = h.prediction.Reject(in, verr)
	} else {
		view = h.prediction.Predict(r.Context(), in)
	}

	status := http.StatusOK
	if len(view.FieldErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	h.pages.Render(w, r, status, pageData{
		Page:       controllers.PagePrediction,
		Prediction: view,
		Form:       postedNumericFields(r),
	})
}

// SubmitContact handles the feedback form post, then refreshes the list.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	view := h.feedback.SubmitAndRefresh(r.Context(), models.FeedbackInput{
		Name:            r.PostForm.Get("name"),
		Email:           r.PostForm.Get("email"),
		FeedbackType:    r.PostForm.Get("feedback_type"),
		FeedbackMessage: r.PostForm.Get("feedback_message"),
	})
	h.pages.Render(w, r, http.StatusOK, pageData{Page: controllers.PageContact, Contact: view})
}

var predictionNumericFields = []string{"age", "height_cm", "weight_kg", "duration_min", "heart_rate", "body_temp_c"}

// postedNumericFields keeps the numeric inputs as typed so the re-rendered form
// shows them unchanged, even when they did not parse.
func postedNumericFields(r *http.Request) map[string]string {
	form := make(map[string]string, len(predictionNumericFields))
	for _, field := range predictionNumericFields {
		if r.PostForm.Has(field) {
			form[field] = strings.TrimSpace(r.PostForm.Get(field))
		}
	}
	return form
}

// parsePredictionForm reads the numeric inputs. Fields that do not parse keep
// their default and are reported in the returned error.
func parsePredictionForm(r *http.Request) (models.PredictionInput, *validation.RequestValidationError) {
	in := models.DefaultPredictionInput()
	verr := &validation.RequestValidationError{}

	if g := strings.TrimSpace(r.PostForm.Get("gender")); g != "" {
		in.Gender = g
	}

	ints := []struct {
		field string
		dst   *int
	}{
		{"age", &in.Age},
		{"height_cm", &in.HeightCm},
		{"weight_kg", &in.WeightKg},
		{"duration_min", &in.DurationMin},
		{"heart_rate", &in.HeartRate},
	}
	for _, f := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get(f.field)))
		if err != nil {
			verr.Add(f.field, "number", validation.Label(f.field)+" must be a whole number")
			continue
		}
		*f.dst = n
	}

	temp, err := strconv.ParseFloat(strings.TrimSpace(r.PostForm.Get("body_temp_c")), 64)
	if err != nil || math.IsNaN(temp) || math.IsInf(temp, 0) {
		verr.Add("body_temp_c", "number", validation.Label("body_temp_c")+" must be a number")
	} else {
		in.BodyTempC = temp
	}

	if len(verr.Fields) > 0 {
		return in, verr
	}
	return in, nil
}
