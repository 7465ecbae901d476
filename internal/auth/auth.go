// Package auth implements bearer-token authentication over the user and
// session stores. Tokens are opaque random strings persisted as session
// rows with an absolute expiry; one row is issued per login and deleted
// on logout.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"

	"lexcms/internal/models"
	"lexcms/internal/store"
)

// Sentinel errors surfaced to handlers for status-code mapping.
var (
	// ErrInvalidCredentials covers unknown email, wrong password, and a
	// bad or missing TOTP code alike; callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned for missing, unknown, or expired tokens.
	ErrUnauthorized = errors.New("unauthorized")
)

// tokenBytes is the byte length of the random token (32 bytes = 64 hex chars).
const tokenBytes = 32

// Service wires the stores needed for the login/verify/logout flow.
type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	activity *store.ActivityStore
	ttl      time.Duration
}

// NewService creates an auth service issuing tokens valid for ttl.
func NewService(users *store.UserStore, sessions *store.SessionStore, activity *store.ActivityStore, ttl time.Duration) *Service {
	return &Service{users: users, sessions: sessions, activity: activity, ttl: ttl}
}

// Result is what a successful login returns to the client.
type Result struct {
	Token       string   `json:"token"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Login validates credentials and issues a new session token. When the
// account has TOTP enrolled, otpCode must also validate. Every failure
// path returns ErrInvalidCredentials.
func (s *Service) Login(email, password, otpCode, ip, userAgent string) (*Result, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if user == nil || !user.IsActive() || !s.users.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	if user.TOTPEnabled && user.TOTPSecret != nil {
		if !totp.Validate(otpCode, *user.TOTPSecret) {
			return nil, ErrInvalidCredentials
		}
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("login token: %w", err)
	}

	now := time.Now()
	sess := &models.Session{
		Token:     token,
		UserID:    user.ID,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	if err := s.sessions.Create(sess); err != nil {
		return nil, fmt.Errorf("login session: %w", err)
	}

	if err := s.users.RecordLogin(user.ID, ip, now); err != nil {
		slog.Error("login bookkeeping failed", "error", err, "user", user.Email)
	}
	if err := s.activity.Append(&models.ActivityEntry{
		UserID: user.ID, Action: "login", IP: ip, UserAgent: userAgent,
	}); err != nil {
		slog.Error("login activity append failed", "error", err, "user", user.Email)
	}

	return &Result{
		Token:       token,
		Role:        string(user.Role),
		Permissions: user.Permissions,
	}, nil
}

// Verify resolves a token to its admin user. Returns ErrUnauthorized when
// the token is unknown or past its absolute expiry.
func (s *Service) Verify(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	sess, err := s.sessions.Find(token, time.Now())
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	if sess == nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("verify user: %w", err)
	}
	if user == nil || !user.IsActive() {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// Logout deletes the session row unconditionally. Unknown tokens succeed,
// making logout idempotent.
func (s *Service) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(token)
}

// generateToken creates a cryptographically random bearer token.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
