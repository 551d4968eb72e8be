package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/middleware"
)

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestSendOTP_OK(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{
		auth: &mockAuthServicer{
			requestCode: func(_ context.Context, email string) error {
				assert.Equal(t, "pat@example.com", email)
				return nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp",
		strings.NewReader(`{"email":"pat@example.com"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sent":true}`, rec.Body.String())
}

func TestSendOTP_BadEmail(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{
		auth: &mockAuthServicer{
			requestCode: func(_ context.Context, _ string) error {
				return domain.ErrValidation
			},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp", strings.NewReader(`{"email":"nope"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVerifyOTP_SetsSessionCookie(t *testing.T) {
	session := domain.Session{
		Token:     "signed.jwt.token",
		UserID:    uuid.New(),
		Email:     "pat@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	h := newTestRouter(testUser(), serverDeps{
		auth: &mockAuthServicer{
			verifyCode: func(_ context.Context, email, code string) (domain.Session, error) {
				assert.Equal(t, "pat@example.com", email)
				assert.Equal(t, "123456", code)
				return session, nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
		strings.NewReader(`{"email":"pat@example.com","code":"123456"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure, "secure only when serving TLS")
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	assert.NotContains(t, rec.Body.String(), "signed.jwt.token", "the token travels only in the cookie")
	assert.Contains(t, rec.Body.String(), session.UserID.String())
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{
		auth: &mockAuthServicer{
			verifyCode: func(_ context.Context, _, _ string) (domain.Session, error) {
				return domain.Session{}, domain.ErrUnauthorized
			},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
		strings.NewReader(`{"email":"pat@example.com","code":"000000"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_code")
	assert.Nil(t, sessionCookie(rec))
}

func TestAuthCallback_RedirectsIntoApp(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{
		auth: &mockAuthServicer{
			verifyCode: func(_ context.Context, email, code string) (domain.Session, error) {
				assert.Equal(t, "pat@example.com", email)
				assert.Equal(t, "deadbeef", code)
				return domain.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?email=pat%40example.com&code=deadbeef", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	require.NotNil(t, sessionCookie(rec))
}

func TestAuthCallback_ExpiredLink(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{
		auth: &mockAuthServicer{
			verifyCode: func(_ context.Context, _, _ string) (domain.Session, error) {
				return domain.Session{}, domain.ErrUnauthorized
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?email=pat%40example.com&code=old", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	h := newTestRouter(testUser(), serverDeps{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
