package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/atozbnb/internal/auth"
	"github.com/vbonduro/atozbnb/internal/domain"
)

func (s *Server) handleRestoreCSRF(w http.ResponseWriter, r *http.Request) {
	token := s.tokens.NewCSRFToken()
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CSRFCookie,
		Value:    token,
		Path:     "/",
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{auth.CSRFHeader: token})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": currentUser(r)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := s.users.Login(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "User")
		return
	}
	if !s.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in domain.SignupInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := s.users.Signup(r.Context(), in)
	if errors.Is(err, domain.ErrConflict) {
		var fields domain.FieldErrors
		errors.As(err, &fields)
		writeError(w, http.StatusConflict, "User already exists", fields)
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err, "User")
		return
	}
	if !s.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Profile()})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *domain.User) bool {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.writeServiceError(w, r, err, "User")
		return false
	}
	s.setSessionCookie(w, token)
	return true
}
