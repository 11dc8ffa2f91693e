package controllers

import (
	"net/http"
	"strconv"
	"time"

	"gitea.com/go-chi/session"
	"go.uber.org/zap"

	authmiddleware "github.com/securecorp/honeypot/middleware"
	"github.com/securecorp/honeypot/services"
)

const (
	adminLoginTemplate     = "templates/admin-login.html"
	adminDashboardTemplate = "templates/admin-dashboard.html"
)

// AdminController handles the PIN gate and the analytics console.
type AdminController struct {
	services *services.Services
	logger   *zap.Logger
}

// NewAdminController creates a new admin controller
func NewAdminController(services *services.Services, logger *zap.Logger) *AdminController {
	return &AdminController{
		services: services,
		logger:   logger,
	}
}

// PinPage handles GET /admin2430.html. An already authenticated session
// goes straight to the dashboard.
func (c *AdminController) PinPage(w http.ResponseWriter, r *http.Request) {
	if authmiddleware.IsAdminSession(r) {
		http.Redirect(w, r, "/admin2430.html/dashboard", http.StatusFound)
		return
	}

	renderPage(w, http.StatusOK, adminLoginTemplate, pageData{Title: "Admin Access"})
}

// SubmitPin handles POST /admin2430.html. Rate limiting has already run as
// route middleware; a denied IP never reaches this handler.
func (c *AdminController) SubmitPin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, http.StatusBadRequest, adminLoginTemplate, pageData{
			Title: "Admin Access",
			Error: "PIN is required",
		})
		return
	}

	pin := r.PostFormValue("pin")
	if pin == "" {
		renderPage(w, http.StatusBadRequest, adminLoginTemplate, pageData{
			Title: "Admin Access",
			Error: "PIN is required",
		})
		return
	}

	sess := session.GetSession(r)
	result := c.services.Admin.SubmitPin(r.Context(), authmiddleware.ClientIP(r), pin, sess.ID())

	switch result {
	case services.PinGranted:
		if err := sess.Set(authmiddleware.SessionIsAdmin, true); err != nil {
			c.logger.Error("failed to mark session as admin", zap.Error(err))
		}
		if err := sess.Set(authmiddleware.SessionLoginTime, time.Now().UTC()); err != nil {
			c.logger.Error("failed to store login time", zap.Error(err))
		}
		http.Redirect(w, r, "/admin2430.html/dashboard", http.StatusFound)

	case services.PinSystemError:
		renderPage(w, http.StatusInternalServerError, adminLoginTemplate, pageData{
			Title: "Admin Access",
			Error: "System error - please contact administrator",
		})

	default:
		renderPage(w, http.StatusUnauthorized, adminLoginTemplate, pageData{
			Title: "Admin Access",
			Error: "Invalid PIN code",
		})
	}
}

// Dashboard handles GET /admin2430.html/dashboard.
func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview := c.services.Stats.Overview(r.Context())

	loginTime, _ := session.GetSession(r).Get(authmiddleware.SessionLoginTime).(time.Time)

	renderPage(w, http.StatusOK, adminDashboardTemplate, pageData{
		Title: "Admin Dashboard - Honeypot Monitor",
		Data: struct {
			Stats     interface{}
			LoginTime time.Time
		}{
			Stats:     overview,
			LoginTime: loginTime,
		},
	})
}

// APIStats handles GET /admin2430.html/api/stats and returns the chart
// payloads in one response.
func (c *AdminController) APIStats(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", services.DefaultTimelineDays)
	ctx := r.Context()

	writeJSON(w, http.StatusOK, map[string]any{
		"timeline":     c.services.Stats.Timeline(ctx, days),
		"topIPs":       c.services.Stats.TopIPs(ctx, services.DefaultTopIPLimit),
		"topUsernames": c.services.Stats.TopUsernames(ctx, services.DefaultTopUsernameLimit),
		"distribution": c.services.Stats.RequestDistribution(ctx, services.DefaultDistributionLimit),
	})
}

// APIRecent handles GET /admin2430.html/api/recent with limit/offset paging.
func (c *AdminController) APIRecent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", services.DefaultRecentLimit)
	offset := queryInt(r, "offset", 0)

	writeJSON(w, http.StatusOK, c.services.Stats.RecentAttempts(r.Context(), limit, offset))
}

// Logout handles POST /admin2430.html/logout. Destroying an already
// anonymous session is a no-op; either way the caller lands on the PIN page.
func (c *AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.GetSession(r).Destroy(w, r); err != nil {
		c.logger.Warn("failed to destroy session", zap.Error(err))
	}

	http.Redirect(w, r, "/admin2430.html", http.StatusFound)
}

// queryInt reads an integer query parameter, falling back on garbage.
func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return value
}
