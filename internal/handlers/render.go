package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/controllers"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/logging"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is the root value every page template receives.
type pageData struct {
	Page  controllers.Page
	Pages []controllers.Page

	Prediction    controllers.PredictionView
	Form          map[string]string // posted prediction inputs, as typed
	Genders       []string
	Contact       controllers.ContactView
	FeedbackTypes []string
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[controllers.Page]*template.Template
}

var templateFuncs = template.FuncMap{
	"label": validation.Label,
	// formValue prefers what the user posted for field over the view's value.
	"formValue": func(form map[string]string, field, fallback string) string {
		if v, ok := form[field]; ok {
			return v
		}
		return fallback
	},
	"saved": func(s controllers.SubmitStatus) bool { return s == controllers.SubmitSaved },
	"failed": func(s controllers.SubmitStatus) bool {
		return s == controllers.SubmitInvalid || s == controllers.SubmitFailed
	},
}

func NewRenderer() (*Renderer, error) {
	files := map[controllers.Page]string{
		controllers.PageHome:       "templates/home.html",
		controllers.PagePrediction: "templates/prediction.html",
		controllers.PageContact:    "templates/contact.html",
	}
	r := &Renderer{pages: make(map[controllers.Page]*template.Template, len(files))}
	for page, file := range files {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render writes the page with status. It renders into a buffer first so a
// template error never leaves a half-written page.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	data.Pages = controllers.Pages
	data.Genders = models.Genders
	data.FeedbackTypes = models.FeedbackTypes

	t, ok := rd.pages[data.Page]
	if !ok {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("page", string(data.Page)).Msg("failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
