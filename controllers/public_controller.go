package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	authmiddleware "github.com/securecorp/honeypot/middleware"
	"github.com/securecorp/honeypot/services"
)

// Messages returned by the fake login surface. Deliberately generic: the
// endpoint must never signal whether storage worked, which field was wrong,
// or anything else about system health.
const (
	msgInvalidCredentials = "Invalid username or password"
	msgMissingCredentials = "Username and password are required"
)

// PublicController handles the fake login surface.
type PublicController struct {
	services *services.Services
	logger   *zap.Logger
}

// NewPublicController creates a new public controller
func NewPublicController(services *services.Services, logger *zap.Logger) *PublicController {
	return &PublicController{
		services: services,
		logger:   logger,
	}
}

// Index handles GET / and renders the fake login page.
func (c *PublicController) Index(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, "templates/login.html", pageData{
		Title: "SecureCorp Portal - Sign In",
	})
}

// Login handles POST /login. It records the attempt and always rejects;
// there are no valid credentials and there is no success path.
func (c *PublicController) Login(w http.ResponseWriter, r *http.Request) {
	username, password := readCredentials(r)

	if username == "" || password == "" {
		writeJSONError(w, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	// Capture enqueues the record and then applies the response delay.
	// Whether the record lands is invisible here and must stay that way.
	c.services.Trap.Capture(authmiddleware.ClientIP(r), r.UserAgent(), username, password)

	writeJSONError(w, http.StatusUnauthorized, msgInvalidCredentials)
}

// readCredentials pulls username/password from a JSON or form body.
func readCredentials(r *http.Request) (string, string) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", ""
		}
		return body.Username, body.Password
	}

	if err := r.ParseForm(); err != nil {
		return "", ""
	}
	return r.PostFormValue("username"), r.PostFormValue("password")
}
