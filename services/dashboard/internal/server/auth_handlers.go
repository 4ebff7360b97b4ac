package server

import (
	"net/http"

	"airstream/pkg/domain"
	"airstream/pkg/session"
	"airstream/services/dashboard/internal/security"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetEmailRequest struct {
	Email string `json:"email"`
}

type resetCodeRequest struct {
	Code string `json:"code"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type navigationResponse struct {
	Success  bool             `json:"success"`
	Redirect string           `json:"redirect"`
	Step     domain.ResetStep `json:"step,omitempty"`
}

type sessionResponse struct {
	Success bool `json:"success"`
	session.State
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	next, err := s.app.Session().Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.audit(r, security.EventLogin, security.OutcomeFail)
		respondError(w, r, err)
		return
	}
	s.setAuthCookie(w)
	s.audit(r, security.EventLogin, security.OutcomeSuccess)
	writeJSON(w, http.StatusOK, navigationResponse{Success: true, Redirect: next.Path()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	next, err := s.app.Session().Logout(r.Context())
	s.clearAuthCookie(w)
	if err != nil {
		s.audit(r, security.EventLogout, security.OutcomeFail)
		respondError(w, r, err)
		return
	}
	s.audit(r, security.EventLogout, security.OutcomeSuccess)
	writeJSON(w, http.StatusOK, navigationResponse{Success: true, Redirect: next.Path()})
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{Success: true, State: s.app.Session().State()})
}

func (s *Server) handleResetEmail(w http.ResponseWriter, r *http.Request) {
	var req resetEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	next, err := s.app.Session().BeginReset(r.Context(), req.Email)
	s.respondReset(w, r, security.EventResetEmail, next, err)
}

func (s *Server) handleResetCode(w http.ResponseWriter, r *http.Request) {
	var req resetCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	next, err := s.app.Session().SubmitVerificationCode(r.Context(), req.Code)
	s.respondReset(w, r, security.EventResetCode, next, err)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	next, err := s.app.Session().SubmitNewPassword(r.Context(), req.Password, req.ConfirmPassword)
	s.respondReset(w, r, security.EventResetPass, next, err)
}

func (s *Server) respondReset(w http.ResponseWriter, r *http.Request, event string, next domain.View, err error) {
	if err != nil {
		s.audit(r, event, security.OutcomeFail)
		respondError(w, r, err)
		return
	}
	s.audit(r, event, security.OutcomeSuccess)
	writeJSON(w, http.StatusOK, navigationResponse{
		Success:  true,
		Redirect: next.Path(),
		Step:     s.app.Session().Step(),
	})
}
