package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/planit/backend/internal/domain"
	"github.com/pkordes/planit/backend/internal/mailer"
	"github.com/pkordes/planit/backend/internal/repo"
)

const (
	codeTTL    = 10 * time.Minute
	sessionTTL = 7 * 24 * time.Hour
)

// AuthService implements the passwordless sign-in handshake: request a
// one-time code, verify it, and mint a signed session token. Accounts are
// provisioned on first request — there is no separate registration.
type AuthService struct {
	users  repo.UserRepo
	codes  repo.AuthCodeRepo
	mail   mailer.Mailer
	secret []byte
	appURL string
}

// NewAuthService constructs an AuthService. secret signs session tokens and
// must be non-empty; appURL is the externally reachable base URL used to
// build magic links.
func NewAuthService(users repo.UserRepo, codes repo.AuthCodeRepo, mail mailer.Mailer, secret []byte, appURL string) *AuthService {
	return &AuthService{users: users, codes: codes, mail: mail, secret: secret, appURL: appURL}
}

// sessionClaims is the JWT payload for a signed-in session.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RequestCode provisions (or finds) the account for email and issues both
// sign-in credentials: a 6-digit passcode to type in and a magic-link token
// embedded in a URL. Both are single-use and expire after ten minutes.
// Issuance succeeds even when no mail transport is configured — the code is
// still recorded, it just is not delivered.
func (s *AuthService) RequestCode(ctx context.Context, email string) error {
	email = foldEmail(email)
	if !validEmail(email) {
		return fmt.Errorf("%w: a valid email address is required", domain.ErrValidation)
	}
	if _, err := s.users.UpsertByEmail(ctx, email); err != nil {
		return fmt.Errorf("service.AuthService.RequestCode: %w", err)
	}

	code, err := newSignInCode()
	if err != nil {
		return fmt.Errorf("service.AuthService.RequestCode: %w", err)
	}
	magic, err := newMagicToken()
	if err != nil {
		return fmt.Errorf("service.AuthService.RequestCode: %w", err)
	}

	expiresAt := time.Now().Add(codeTTL)
	if err := s.codes.Create(ctx, email, code, domain.CodeEmail, expiresAt); err != nil {
		return fmt.Errorf("service.AuthService.RequestCode: %w", err)
	}
	if err := s.codes.Create(ctx, email, magic, domain.CodeMagicLink, expiresAt); err != nil {
		return fmt.Errorf("service.AuthService.RequestCode: %w", err)
	}

	magicURL := s.appURL + "/auth/callback?email=" + url.QueryEscape(email) + "&code=" + magic
	if _, err := s.mail.SendSignInCode(email, code, magicURL); err != nil {
		return fmt.Errorf("service.AuthService.RequestCode: %w", err)
	}
	return nil
}

// VerifyCode redeems a one-time credential and returns a signed session.
// The submitted value is tried as a typed-in passcode first and as a
// magic-link token second, so both channels verify through this one path.
// A wrong, expired, or already-used code is domain.ErrUnauthorized.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (domain.Session, error) {
	email = foldEmail(email)
	code = strings.TrimSpace(code)
	if !validEmail(email) || code == "" {
		return domain.Session{}, fmt.Errorf("%w: email and code are required", domain.ErrValidation)
	}

	err := s.codes.Consume(ctx, email, code, domain.CodeEmail)
	if errors.Is(err, domain.ErrNotFound) {
		err = s.codes.Consume(ctx, email, code, domain.CodeMagicLink)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, fmt.Errorf("service.AuthService.VerifyCode: %w", domain.ErrUnauthorized)
		}
		return domain.Session{}, fmt.Errorf("service.AuthService.VerifyCode: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.VerifyCode: %w", err)
	}
	return s.issueSession(user)
}

// issueSession mints an HS256-signed token carrying the user's ID and email.
func (s *AuthService) issueSession(user domain.User) (domain.Session, error) {
	expiresAt := time.Now().Add(sessionTTL)
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.issueSession: %w", err)
	}
	return domain.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseSession validates a session token and returns the session it encodes.
// Any defect — bad signature, wrong algorithm, expiry — is
// domain.ErrUnauthorized.
func (s *AuthService) ParseSession(token string) (domain.Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Session{}, fmt.Errorf("service.AuthService.ParseSession: %w", domain.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Session{}, fmt.Errorf("service.AuthService.ParseSession: %w", domain.ErrUnauthorized)
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return domain.Session{
		Token:     token,
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// newSignInCode returns a 6-digit passcode, zero-padded.
func newSignInCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate sign-in code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// newMagicToken returns 32 bytes of cryptographic randomness, hex encoded.
func newMagicToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate magic-link token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
