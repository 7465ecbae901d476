// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"lexcms/internal/models"
)

// SessionStore manages bearer-token session rows.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a new SessionStore with the given database connection.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create persists a new session row for one login.
func (s *SessionStore) Create(sess *models.Session) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (token, user_id, ip, user_agent, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sess.Token, sess.UserID, sess.IP, sess.UserAgent, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Find retrieves an unexpired session by token. Returns nil if the token
// is unknown or past its absolute expiry.
func (s *SessionStore) Find(token string, now time.Time) (*models.Session, error) {
	sess := &models.Session{}
	err := s.db.QueryRow(`
		SELECT token, user_id, ip, user_agent, created_at, expires_at
		FROM sessions WHERE token = ? AND expires_at > ?
	`, token, now.Unix()).Scan(
		&sess.Token, &sess.UserID, &sess.IP, &sess.UserAgent, &sess.CreatedAt, &sess.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return sess, nil
}

// Delete removes a session row unconditionally. Deleting an unknown token
// is not an error, making logout idempotent.
func (s *SessionStore) Delete(token string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry. Returns the number
// of rows removed.
func (s *SessionStore) DeleteExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions rows: %w", err)
	}
	return n, nil
}
