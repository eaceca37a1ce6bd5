// Package controllers holds the page logic of the app, independent of HTTP.
// Each user action (select page, predict, submit feedback) is one method call
// that returns a view value for the renderer.
package controllers

import "strings"

// Page is one entry of the navigation control.
type Page string

const (
	PageHome       Page = "Home"
	PagePrediction Page = "Prediction"
	PageContact    Page = "Contact"
)

// Pages lists the navigation entries in display order.
var Pages = []Page{PageHome, PagePrediction, PageContact}

// ParsePage accepts a page name case-insensitively. Unknown names fall back to
// Home with ok=false.
func ParsePage(s string) (Page, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Pages {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return PageHome, false
}

// Path is the URL the page is served at.
func (p Page) Path() string {
	return "/" + strings.ToLower(string(p))
}
