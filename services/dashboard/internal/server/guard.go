package server

import (
	"net/http"
	"strings"
	"time"

	"airstream/pkg/domain"
)

const authCookieName = "auth"

var (
	protectedPrefixes = []string{
		domain.ViewDashboard.Path(),
		"/api/assets",
		"/api/view",
		"/api/drafts",
	}
	authPages = map[string]bool{
		domain.ViewLogin.Path():          true,
		domain.ViewForgotPassword.Path(): true,
		domain.ViewVerifyCode.Path():     true,
		domain.ViewResetPassword.Path():  true,
		domain.ViewResetSuccess.Path():   true,
	}
)

type guardAction int

const (
	guardAllow guardAction = iota
	guardToLogin
	guardToDashboard
	guardUnauthorized
)

// checkRoute decides what a request for path may see. Only the auth cookie
// counts; pages redirect and API paths answer 401.
func checkRoute(path string, authenticated bool) guardAction {
	if authenticated {
		if authPages[path] {
			return guardToDashboard
		}
		return guardAllow
	}
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			if strings.HasPrefix(path, "/api/") {
				return guardUnauthorized
			}
			return guardToLogin
		}
	}
	return guardAllow
}

func (s *Server) routeGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		switch checkRoute(r.URL.Path, hasAuthCookie(r)) {
		case guardToLogin:
			http.Redirect(w, r, domain.ViewLogin.Path(), http.StatusFound)
		case guardToDashboard:
			http.Redirect(w, r, domain.ViewDashboard.Path(), http.StatusFound)
		case guardUnauthorized:
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func hasAuthCookie(r *http.Request) bool {
	c, err := r.Cookie(authCookieName)
	return err == nil && c.Value == "true"
}

func (s *Server) setAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   int(s.cookieMaxAge / time.Second),
		Secure:   s.cookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookie expires the cookie with a date in the past.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.cookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
