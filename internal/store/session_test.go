package store

import (
	"testing"
	"time"

	"lexcms/internal/models"
)

func seedUser(t *testing.T, s *UserStore) *models.User {
	t.Helper()
	u, err := s.Create("admin@example.com", "hunter22", models.RoleAdmin, []string{"content"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestSessionLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db)
	u := seedUser(t, users)

	now := time.Now()
	sess := &models.Session{
		Token:     "tok-abc123",
		UserID:    u.ID,
		IP:        "10.0.0.1",
		UserAgent: "test-agent",
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour).Unix(),
	}
	if err := sessions.Create(sess); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := sessions.Find("tok-abc123", now)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if got == nil || got.UserID != u.ID {
		t.Fatalf("Find() returned %+v", got)
	}

	// Expired tokens are invisible.
	got, err = sessions.Find("tok-abc123", now.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("Find(expired) error: %v", err)
	}
	if got != nil {
		t.Error("expired session should not be returned")
	}

	// Logout deletes; doing it twice is fine.
	if err := sessions.Delete("tok-abc123"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := sessions.Delete("tok-abc123"); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
	got, _ = sessions.Find("tok-abc123", now)
	if got != nil {
		t.Error("deleted session should not be returned")
	}
}

func TestDeleteExpired(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	sessions := NewSessionStore(db)
	u := seedUser(t, users)

	now := time.Now()
	stale := &models.Session{Token: "tok-old", UserID: u.ID, CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: now.Add(-24 * time.Hour).Unix()}
	fresh := &models.Session{Token: "tok-new", UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour).Unix()}
	for _, sess := range []*models.Session{stale, fresh} {
		if err := sessions.Create(sess); err != nil {
			t.Fatalf("Create(%s) error: %v", sess.Token, err)
		}
	}

	n, err := sessions.DeleteExpired(now)
	if err != nil {
		t.Fatalf("DeleteExpired() error: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteExpired: got %d rows, want 1", n)
	}

	if got, _ := sessions.Find("tok-new", now); got == nil {
		t.Error("unexpired session should survive the sweep")
	}
}

func TestUserLoginBookkeeping(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	u := seedUser(t, users)

	if !users.CheckPassword(u, "hunter22") {
		t.Error("CheckPassword should accept the seeded password")
	}
	if users.CheckPassword(u, "wrong") {
		t.Error("CheckPassword should reject a wrong password")
	}

	at := time.Now()
	if err := users.RecordLogin(u.ID, "192.0.2.1", at); err != nil {
		t.Fatalf("RecordLogin() error: %v", err)
	}

	got, err := users.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if got.LoginCount != 1 {
		t.Errorf("login count: got %d, want 1", got.LoginCount)
	}
	if got.LastLoginIP == nil || *got.LastLoginIP != "192.0.2.1" {
		t.Errorf("last login ip: got %v", got.LastLoginIP)
	}
	if len(got.Permissions) != 1 || got.Permissions[0] != "content" {
		t.Errorf("permissions: got %v", got.Permissions)
	}
}
