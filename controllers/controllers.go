package controllers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/securecorp/honeypot/services"
)

// Controllers holds all controller instances
type Controllers struct {
	Public *PublicController
	Admin  *AdminController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, logger *zap.Logger) *Controllers {
	return &Controllers{
		Public: NewPublicController(services, logger),
		Admin:  NewAdminController(services, logger),
	}
}

// pageData is what every rendered page consumes.
type pageData struct {
	Title string
	Error string
	Data  interface{}
}

// renderPage parses and renders a single page template with the provided
// status code and data.
func renderPage(w http.ResponseWriter, statusCode int, pageTemplate string, data pageData) {
	tmpl, err := template.ParseFiles(pageTemplate)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with the provided status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONError writes a generic error envelope.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
