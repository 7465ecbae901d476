package auth

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"

	"lexcms/internal/database"
	"lexcms/internal/models"
	"lexcms/internal/store"
)

func testService(t *testing.T, ttl time.Duration) (*Service, *sql.DB) {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "auth_test.db"))
	if err != nil {
		t.Fatalf("open test DB: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)
	t.Cleanup(func() { db.Close() })

	users := store.NewUserStore(db)
	if _, err := users.Create("admin@example.com", "secret-pw", models.RoleAdmin, []string{"content", "qr"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := NewService(users, store.NewSessionStore(db), store.NewActivityStore(db), ttl)
	return svc, db
}

func TestLoginVerifyLogout(t *testing.T) {
	svc, db := testService(t, 24*time.Hour)

	res, err := svc.Login("Admin@Example.COM ", "secret-pw", "", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if res.Token == "" || len(res.Token) != 64 {
		t.Errorf("token: got %q, want 64 hex chars", res.Token)
	}
	if res.Role != "admin" {
		t.Errorf("role: got %q", res.Role)
	}
	if len(res.Permissions) != 2 {
		t.Errorf("permissions: got %v", res.Permissions)
	}

	user, err := svc.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Errorf("verified user: got %q", user.Email)
	}

	// Login wrote bookkeeping and an activity entry.
	var loginCount, activityCount int
	db.QueryRow("SELECT login_count FROM users WHERE email = 'admin@example.com'").Scan(&loginCount)
	db.QueryRow("SELECT COUNT(*) FROM activity_log WHERE action = 'login'").Scan(&activityCount)
	if loginCount != 1 {
		t.Errorf("login count: got %d, want 1", loginCount)
	}
	if activityCount != 1 {
		t.Errorf("activity entries: got %d, want 1", activityCount)
	}

	if err := svc.Logout(res.Token); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if _, err := svc.Verify(res.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Verify after logout = %v, want ErrUnauthorized", err)
	}

	// Logout is idempotent.
	if err := svc.Logout(res.Token); err != nil {
		t.Errorf("second Logout() error: %v", err)
	}
}

func TestLoginRejections(t *testing.T) {
	svc, _ := testService(t, 24*time.Hour)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@example.com", "nope"},
		{"unknown email", "ghost@example.com", "secret-pw"},
		{"empty password", "admin@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(tt.email, tt.password, "", "10.0.0.1", "agent")
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	// Issue tokens that expire immediately.
	svc, _ := testService(t, -time.Second)

	res, err := svc.Login("admin@example.com", "secret-pw", "", "10.0.0.1", "agent")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if _, err := svc.Verify(res.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Verify(expired) = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	svc, _ := testService(t, 24*time.Hour)
	if _, err := svc.Verify(""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Verify(\"\") = %v, want ErrUnauthorized", err)
	}
}
