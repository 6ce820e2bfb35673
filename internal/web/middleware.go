package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/vbonduro/atozbnb/internal/auth"
	"github.com/vbonduro/atozbnb/internal/domain"
)

type ctxKey int

const userKey ctxKey = iota

// currentUser returns the user restored from the session cookie, or nil.
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userKey).(*domain.User)
	return user
}

// restoreUser attaches the session user to the request context. Invalid or
// stale session cookies are cleared.
func (s *Server) restoreUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.SessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := s.tokens.Parse(cookie.Value)
		if err != nil {
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.GetUser(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.logger.Error("restore session user failed", "user_id", userID, "error", err)
			}
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// requireAuth rejects requests without a session user.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, *domain.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required", nil)
			return
		}
		next(w, r, user)
	}
}

// verifyCSRF requires state-changing requests to echo the CSRF cookie in the
// CSRF header.
func (s *Server) verifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		var cookieValue string
		if cookie, err := r.Cookie(auth.CSRFCookie); err == nil {
			cookieValue = cookie.Value
		}
		if !s.tokens.VerifyCSRF(cookieValue, r.Header.Get(auth.CSRFHeader)) {
			s.logger.Warn("csrf check failed", "method", r.Method, "path", r.URL.Path)
			writeError(w, http.StatusForbidden, "Invalid CSRF token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.ExpiresIn().Seconds()),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
