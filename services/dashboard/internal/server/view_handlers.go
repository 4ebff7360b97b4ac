package server

import (
	"net/http"
	"time"

	"airstream/pkg/directory"
	"airstream/pkg/domain"
)

type viewResponse struct {
	View domain.View      `json:"view"`
	Step domain.ResetStep `json:"step,omitempty"`

	Email         string   `json:"email,omitempty"`
	PasswordRules []string `json:"passwordRules,omitempty"`
}

type dashboardResponse struct {
	View          domain.View        `json:"view"`
	SearchTerm    string             `json:"searchTerm"`
	Assets        []domain.Asset     `json:"assets"`
	State         directory.Snapshot `json:"state"`
	LastAutoSaved *time.Time         `json:"lastAutoSaved,omitempty"`
}

var passwordRules = []string{
	"8-16 characters",
	"at least 1 number",
	"at least 1 special character",
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if hasAuthCookie(r) {
		http.Redirect(w, r, domain.ViewDashboard.Path(), http.StatusFound)
		return
	}
	http.Redirect(w, r, domain.ViewLogin.Path(), http.StatusFound)
}

func (s *Server) handleLoginView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewResponse{View: domain.ViewLogin})
}

func (s *Server) handleForgotPasswordView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewResponse{
		View: domain.ViewForgotPassword,
		Step: s.app.Session().Step(),
	})
}

func (s *Server) handleVerifyCodeView(w http.ResponseWriter, r *http.Request) {
	if !s.resetViewAllowed(w, r, domain.ViewVerifyCode) {
		return
	}
	state := s.app.Session().State()
	writeJSON(w, http.StatusOK, viewResponse{
		View:  domain.ViewVerifyCode,
		Step:  state.Step,
		Email: state.Email,
	})
}

func (s *Server) handleResetPasswordView(w http.ResponseWriter, r *http.Request) {
	if !s.resetViewAllowed(w, r, domain.ViewResetPassword) {
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{
		View:          domain.ViewResetPassword,
		Step:          s.app.Session().Step(),
		PasswordRules: passwordRules,
	})
}

func (s *Server) handleResetSuccessView(w http.ResponseWriter, r *http.Request) {
	if !s.resetViewAllowed(w, r, domain.ViewResetSuccess) {
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{View: domain.ViewResetSuccess, Step: domain.StepSuccess})
}

func (s *Server) handleDashboardView(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	dir := s.app.Directory()
	resp := dashboardResponse{
		View:       domain.ViewDashboard,
		SearchTerm: term,
		Assets:     dir.Filter(term),
		State:      dir.View(),
	}
	if last := s.app.AutoSaver().LastSaved(); !last.IsZero() {
		resp.LastAutoSaved = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

// resetViewAllowed redirects to the email step when the precondition of view
// is not met.
func (s *Server) resetViewAllowed(w http.ResponseWriter, r *http.Request, view domain.View) bool {
	redirect, ok := s.app.Session().Guard(view)
	if ok {
		return true
	}
	http.Redirect(w, r, redirect.Path(), http.StatusFound)
	return false
}
