package middleware

import (
	"net/http"

	"gitea.com/go-chi/session"
)

// Session keys set by the admin controller on a successful PIN submission.
const (
	SessionIsAdmin   = "is_admin"
	SessionLoginTime = "login_time"
)

// RequireAdmin gates the analytics console. An unauthenticated or expired
// session gets the same treatment: back to the PIN prompt, never an error.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		isAdmin, ok := sess.Get(SessionIsAdmin).(bool)
		if !ok || !isAdmin {
			http.Redirect(w, r, "/admin2430.html", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IsAdminSession reports whether the request carries an authenticated
// admin session.
func IsAdminSession(r *http.Request) bool {
	isAdmin, ok := session.GetSession(r).Get(SessionIsAdmin).(bool)
	return ok && isAdmin
}
