package upload

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lexcms/internal/config"
)

func testSaver(t *testing.T) *Saver {
	t.Helper()
	cfg := &config.Config{
		UploadDir:     t.TempDir(),
		MaxImageBytes: 10 << 20,
		MaxVideoBytes: 100 << 20,
		MaxOtherBytes: 25 << 20,
	}
	s, err := NewSaver(cfg)
	if err != nil {
		t.Fatalf("NewSaver() error: %v", err)
	}
	return s
}

// testPNG returns a base64-encoded PNG of the given dimensions.
func testPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     Class
	}{
		{"photo.JPG", ClassImage},
		{"clip.mp4", ClassVideo},
		{"brief.pdf", ClassPDF},
		{"notes.docx", ClassDocument},
		{"tune.mp3", ClassAudio},
		{"data.xyz", ClassOther},
		{"noext", ClassOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.filename); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestSaveImageProducesThumbnailAndCapsEdge(t *testing.T) {
	s := testSaver(t)

	desc, err := s.Save(testPNG(t, 2400, 1200), "big.png", "")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if desc.Type != "image" {
		t.Errorf("type: got %q", desc.Type)
	}
	if !strings.HasPrefix(desc.URL, "/uploads/images/") {
		t.Errorf("url: got %q", desc.URL)
	}
	if desc.ThumbnailURL == "" || !strings.HasPrefix(desc.ThumbnailURL, "/uploads/thumbnails/") {
		t.Errorf("thumbnail url: got %q", desc.ThumbnailURL)
	}
	if desc.Width != 1920 || desc.Height != 960 {
		t.Errorf("dimensions: got %dx%d, want 1920x960", desc.Width, desc.Height)
	}

	// Both files must exist on disk and decode as JPEG within bounds.
	for _, url := range []string{desc.URL, desc.ThumbnailURL} {
		path := filepath.Join(s.Root(), strings.TrimPrefix(url, "/uploads/"))
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		img, err := jpeg.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		b := img.Bounds()
		longest := b.Dx()
		if b.Dy() > longest {
			longest = b.Dy()
		}
		limit := 1920
		if strings.Contains(url, "thumbnails") {
			limit = 300
		}
		if longest > limit {
			t.Errorf("%s longest edge %d exceeds %d", url, longest, limit)
		}
	}
}

func TestSaveDataURLPrefix(t *testing.T) {
	s := testSaver(t)

	payload := "data:image/png;base64," + testPNG(t, 10, 10)
	desc, err := s.Save(payload, "tiny.png", "")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if desc.Width != 10 || desc.Height != 10 {
		t.Errorf("dimensions: got %dx%d", desc.Width, desc.Height)
	}
}

func TestSaveRejectsOversize(t *testing.T) {
	cfg := &config.Config{
		UploadDir:     t.TempDir(),
		MaxImageBytes: 64, // absurdly small to trigger the ceiling
		MaxVideoBytes: 100 << 20,
		MaxOtherBytes: 25 << 20,
	}
	s, err := NewSaver(cfg)
	if err != nil {
		t.Fatalf("NewSaver() error: %v", err)
	}

	_, err = s.Save(testPNG(t, 50, 50), "big.png", "")
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Save() error = %v, want ErrFileTooLarge", err)
	}

	// Nothing may be left behind on disk.
	for _, dir := range []string{"images", "temp"} {
		entries, _ := os.ReadDir(filepath.Join(s.Root(), dir))
		if len(entries) != 0 {
			t.Errorf("%s should be empty after rejected upload, has %d entries", dir, len(entries))
		}
	}
}

func TestSaveRejectsCorruptImage(t *testing.T) {
	s := testSaver(t)

	garbage := base64.StdEncoding.EncodeToString([]byte("not an image at all"))
	_, err := s.Save(garbage, "fake.jpg", "")
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("Save() error = %v, want ErrInvalidImage", err)
	}

	entries, _ := os.ReadDir(filepath.Join(s.Root(), "temp"))
	if len(entries) != 0 {
		t.Errorf("temp should be empty after invalid image, has %d entries", len(entries))
	}
}

func TestSaveRejectsBadBase64(t *testing.T) {
	s := testSaver(t)
	if _, err := s.Save("%%%not-base64%%%", "x.png", ""); err == nil {
		t.Fatal("Save() should fail on undecodable base64")
	}
}

func TestSaveNonImagePassesThroughUnchanged(t *testing.T) {
	s := testSaver(t)

	raw := []byte("fake video bytes")
	desc, err := s.Save(base64.StdEncoding.EncodeToString(raw), "clip.mp4", "")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if desc.Type != "video" {
		t.Errorf("type: got %q, want video", desc.Type)
	}
	if !strings.HasPrefix(desc.URL, "/uploads/videos/") || !strings.HasSuffix(desc.URL, ".mp4") {
		t.Errorf("url: got %q", desc.URL)
	}

	path := filepath.Join(s.Root(), strings.TrimPrefix(desc.URL, "/uploads/"))
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Error("non-image payload should be stored byte for byte")
	}
}

func TestSaveSubfolderHint(t *testing.T) {
	s := testSaver(t)

	desc, err := s.Save(testPNG(t, 20, 20), "me.png", "profile")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !strings.HasPrefix(desc.URL, "/uploads/profile/") {
		t.Errorf("hinted url: got %q", desc.URL)
	}
}

func TestSweepTemp(t *testing.T) {
	s := testSaver(t)
	tempDir := filepath.Join(s.Root(), "temp")

	stale := filepath.Join(tempDir, "stale.bin")
	fresh := filepath.Join(tempDir, "fresh.bin")
	for _, p := range []string{stale, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	s.SweepTemp(time.Hour)

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale temp file should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh temp file should survive: %v", err)
	}
}
