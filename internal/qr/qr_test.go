package qr

import (
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"lexcms/internal/models"
)

func TestNewIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^TREE-[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("NewID() error: %v", err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("NewID() = %q, want TREE-XXXXXXXX", id)
		}
		if seen[id] {
			t.Fatalf("NewID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestBuildPayloadDerivedAge(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		planted    string
		wantYears  int
		wantMonths int
	}{
		{"iso date", "2020-01-01", 6, 7},
		{"recent", "2026-06-15", 0, 2},
		{"unparseable", "last spring", 0, 0},
		{"empty", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &models.TreeRecord{
				ID:           "TREE-00000001",
				TreeName:     "Banyan A",
				PlantedDate:  tt.planted,
				HealthStatus: models.HealthGood,
			}
			p := BuildPayload(r, now)
			if p.AgeYears != tt.wantYears || p.AgeMonths != tt.wantMonths {
				t.Errorf("age: got %dy %dm, want %dy %dm",
					p.AgeYears, p.AgeMonths, tt.wantYears, tt.wantMonths)
			}
		})
	}
}

func TestBuildPayloadMediaFlags(t *testing.T) {
	r := &models.TreeRecord{
		ID:       "TREE-00000002",
		TreeName: "Neem",
		Images: []models.MediaDescriptor{
			{Type: "image", URL: "/uploads/images/a.jpg"},
			{Type: "image", URL: "/uploads/images/b.jpg"},
		},
		VideoURL: "/uploads/videos/c.mp4",
	}
	p := BuildPayload(r, time.Now())
	if p.ImageCount != 2 {
		t.Errorf("imageCount: got %d, want 2", p.ImageCount)
	}
	if !p.HasVideo {
		t.Error("hasVideo should be true")
	}
}

func TestGenerateWritesArtifact(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "qrcodes"), 0o755); err != nil {
		t.Fatal(err)
	}

	g := NewGenerator(root)
	r := &models.TreeRecord{
		ID:           "TREE-0A1B2C3D",
		TreeName:     "Banyan A",
		PlantedDate:  "2020-01-01",
		HealthStatus: models.HealthGood,
	}

	url, err := g.Generate(r, time.Now())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/qrcodes/") {
		t.Errorf("artifact url: got %q", url)
	}

	path := filepath.Join(root, strings.TrimPrefix(url, "/uploads/"))
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("artifact not a PNG: %v", err)
	}
	// The caption strip extends the square code.
	if img.Bounds().Dy() <= img.Bounds().Dx() {
		t.Errorf("captioned artifact should be taller than wide: %v", img.Bounds())
	}
}

func TestGenerateFallsBackWithoutCaption(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "qrcodes"), 0o755); err != nil {
		t.Fatal(err)
	}

	g := NewGenerator(root)
	// Empty tree name defeats compositing; the plain code must still be written.
	r := &models.TreeRecord{ID: "TREE-FFFFFFFF", HealthStatus: models.HealthGood}

	url, err := g.Generate(r, time.Now())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	path := filepath.Join(root, strings.TrimPrefix(url, "/uploads/"))
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("artifact not a PNG: %v", err)
	}
	if img.Bounds().Dx() != img.Bounds().Dy() {
		t.Errorf("plain fallback should be square: %v", img.Bounds())
	}
}
