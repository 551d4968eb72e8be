package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/middleware"
)

// otpRequest is the JSON body for both sign-in endpoints; verify additionally
// carries the code.
type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SendOTP handles POST /api/auth/send-otp. The response is the same whether
// or not the address already had an account, so the endpoint cannot be used
// to enumerate users.
func (s *Server) SendOTP(w http.ResponseWriter, r *http.Request) {
	var body otpRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := s.auth.RequestCode(r.Context(), body.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// VerifyOTP handles POST /api/auth/verify-otp. A valid code sets the session
// cookie; a wrong, expired, or reused code is a 401.
func (s *Server) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body otpRequest
	if !decodeBody(w, r, &body) {
		return
	}

	session, err := s.auth.VerifyCode(r.Context(), body.Email, body.Code)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid_code", "invalid or expired code")
			return
		}
		writeDomainError(w, err)
		return
	}

	s.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, session)
}

// AuthCallback handles GET /auth/callback?email=...&code=...: the magic-link
// landing URL. It verifies through the same path as the typed-in code, sets
// the cookie, and redirects into the app.
func (s *Server) AuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	session, err := s.auth.VerifyCode(r.Context(), q.Get("email"), q.Get("code"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid_code", "this sign-in link is invalid or has expired")
			return
		}
		writeDomainError(w, err)
		return
	}

	s.setSessionCookie(w, session)
	http.Redirect(w, r, "/", http.StatusFound)
}

// SignOut handles POST /api/auth/signout by expiring the session cookie.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"signed_out": true})
}

// setSessionCookie writes the signed session token. Path=/ so both /api and
// /invite routes see it; SameSite=Lax so the magic-link navigation carries it.
func (s *Server) setSessionCookie(w http.ResponseWriter, session domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
