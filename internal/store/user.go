// Package store provides database access methods for all application
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lexcms/internal/models"
)

const userColumns = `id, email, password_hash, role, permissions, totp_secret, totp_enabled,
	last_login_at, last_login_ip, login_count, status, created_at, updated_at`

// UserStore handles all admin-user database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by id. Returns nil if not found.
func (s *UserStore) FindByID(id string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(email, password string, role models.Role, permissions []string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	id := uuid.New().String()
	_, err = s.db.Exec(`
		INSERT INTO users (id, email, password_hash, role, permissions, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, email, string(hash), role, encodePermissions(permissions), models.StatusActive, now, now)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.FindByID(id)
}

// RecordLogin updates the login bookkeeping fields after a successful login.
func (s *UserStore) RecordLogin(userID, ip string, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE users SET last_login_at = ?, last_login_ip = ?, login_count = login_count + 1,
		       updated_at = ?
		WHERE id = ?
	`, at, ip, at, userID)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user during 2FA enrollment.
func (s *UserStore) SetTOTPSecret(userID, secret string) error {
	_, err := s.db.Exec(`UPDATE users SET totp_secret = ?, updated_at = ? WHERE id = ?`,
		secret, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks the second factor as active for a user.
func (s *UserStore) EnableTOTP(userID string) error {
	_, err := s.db.Exec(`UPDATE users SET totp_enabled = 1, updated_at = ? WHERE id = ?`,
		time.Now(), userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var permissions string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &permissions, &u.TOTPSecret, &u.TOTPEnabled,
		&u.LastLoginAt, &u.LastLoginIP, &u.LoginCount, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Permissions = decodePermissions(permissions)
	return u, nil
}

func encodePermissions(perms []string) string {
	if len(perms) == 0 {
		return ""
	}
	b, err := json.Marshal(perms)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodePermissions(raw string) []string {
	if raw == "" {
		return nil
	}
	var perms []string
	if err := json.Unmarshal([]byte(raw), &perms); err != nil {
		return nil
	}
	return perms
}
