package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkordes/planit/backend/internal/domain"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "planit_session"

// SessionParser validates a session token. Satisfied by service.AuthService.
type SessionParser interface {
	ParseSession(token string) (domain.Session, error)
}

type sessionCtxKey struct{}

// NewSessionAuth returns a middleware that requires a valid session cookie.
// The decoded session is placed in the request context for handlers to read
// via SessionFrom. Requests without a valid cookie get a 401 in the API's
// standard error envelope.
func NewSessionAuth(parser SessionParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				writeUnauthorized(w)
				return
			}
			session, err := parser.ParseSession(cookie.Value)
			if err != nil {
				writeUnauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), sessionCtxKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session stored by NewSessionAuth, if any.
func SessionFrom(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(sessionCtxKey{}).(domain.Session)
	return session, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    "unauthorized",
			"message": "sign in to continue",
		},
	})
}
