package store

import (
	"testing"
)

func TestProfileVersionIncrements(t *testing.T) {
	s := NewProfileStore(testDB(t))

	// No row yet.
	p, err := s.Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if p != nil {
		t.Fatal("Get() should return nil before any replace")
	}

	p, err = s.Replace("/uploads/profile/a.jpg", "/uploads/thumbnails/a.jpg", `{"note":"first"}`)
	if err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if p.Version != 1 {
		t.Errorf("version after first replace: got %d, want 1", p.Version)
	}

	p, err = s.Replace("/uploads/profile/b.jpg", "/uploads/thumbnails/b.jpg", "")
	if err != nil {
		t.Fatalf("second Replace() error: %v", err)
	}
	if p.Version != 2 {
		t.Errorf("version after second replace: got %d, want 2", p.Version)
	}
	if p.ImageURL != "/uploads/profile/b.jpg" {
		t.Errorf("image url: got %q", p.ImageURL)
	}
}
