// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload ingests base64-encoded file payloads: it decodes,
// classifies, size-checks, and writes them under the uploads folder
// taxonomy. Images are structurally validated, re-encoded to JPEG with a
// bounded longest edge, and get a separate thumbnail. Files are written to
// a temp path first and renamed into place, so callers never observe a
// partially written file.
package upload

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"lexcms/internal/config"
	"lexcms/internal/models"
)

// Sentinel errors surfaced to handlers for status-code mapping.
var (
	ErrFileTooLarge = errors.New("file too large")
	ErrInvalidImage = errors.New("invalid image data")
)

const (
	// maxEdge is the longest edge an ingested image is allowed to keep.
	maxEdge = 1920

	// thumbEdge bounds the longest edge of generated thumbnails.
	thumbEdge = 300

	// jpegQuality is the fixed quality for re-encoded images and thumbnails.
	jpegQuality = 85

	// maxImagePixels caps decoded size to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// Class is the coarse file classification derived from the extension.
type Class string

const (
	ClassImage    Class = "image"
	ClassVideo    Class = "video"
	ClassPDF      Class = "pdf"
	ClassDocument Class = "document"
	ClassAudio    Class = "audio"
	ClassOther    Class = "other"
)

// folders maps a class to its subfolder under the upload root.
var folders = map[Class]string{
	ClassImage:    "images",
	ClassVideo:    "videos",
	ClassPDF:      "documents",
	ClassDocument: "documents",
	ClassAudio:    "others",
	ClassOther:    "others",
}

// Saver writes ingested files beneath a fixed upload root.
type Saver struct {
	root          string
	maxImageBytes int64
	maxVideoBytes int64
	maxOtherBytes int64
}

// NewSaver creates a Saver rooted at cfg.UploadDir and ensures the folder
// taxonomy exists.
func NewSaver(cfg *config.Config) (*Saver, error) {
	s := &Saver{
		root:          cfg.UploadDir,
		maxImageBytes: cfg.MaxImageBytes,
		maxVideoBytes: cfg.MaxVideoBytes,
		maxOtherBytes: cfg.MaxOtherBytes,
	}

	for _, dir := range []string{"images", "videos", "documents", "profile", "qrcodes", "thumbnails", "others", "temp"} {
		if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}
	return s, nil
}

// Root returns the upload root directory.
func (s *Saver) Root() string { return s.root }

// Classify maps a filename extension to its file class.
func Classify(filename string) Class {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp", "bmp":
		return ClassImage
	case "mp4", "mov", "avi", "mkv", "webm":
		return ClassVideo
	case "pdf":
		return ClassPDF
	case "doc", "docx", "txt", "rtf", "odt":
		return ClassDocument
	case "mp3", "wav", "ogg", "m4a":
		return ClassAudio
	default:
		return ClassOther
	}
}

// limitFor returns the byte ceiling for a class and a human label for the
// error message.
func (s *Saver) limitFor(c Class) (int64, string) {
	switch c {
	case ClassImage:
		return s.maxImageBytes, fmt.Sprintf("%d MB image limit", s.maxImageBytes>>20)
	case ClassVideo:
		return s.maxVideoBytes, fmt.Sprintf("%d MB video limit", s.maxVideoBytes>>20)
	default:
		return s.maxOtherBytes, fmt.Sprintf("%d MB file limit", s.maxOtherBytes>>20)
	}
}

// Save decodes a base64 payload and writes it into the upload taxonomy.
// subfolderHint, when non-empty, overrides the class folder (used to force
// profile images into the profile folder). Returns a media descriptor with
// the public URL.
func (s *Saver) Save(base64Data, filename, subfolderHint string) (*models.MediaDescriptor, error) {
	// Strip an optional data-URL prefix ("data:image/png;base64,...").
	if idx := strings.IndexByte(base64Data, ','); idx != -1 && strings.Contains(base64Data[:idx], ";base64") {
		base64Data = base64Data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(base64Data))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	class := Classify(filename)
	limit, label := s.limitFor(class)
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds the %s", ErrFileTooLarge, filename, label)
	}

	folder := folders[class]
	if subfolderHint != "" {
		folder = subfolderHint
	}

	name := uuid.New().String()
	if class == ClassImage {
		return s.saveImage(raw, name, folder, int64(len(raw)))
	}
	return s.saveBlob(raw, name, filename, folder, class)
}

// saveBlob writes a non-image payload unchanged, temp-then-rename.
func (s *Saver) saveBlob(raw []byte, name, filename, folder string, class Class) (*models.MediaDescriptor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}

	tempPath := filepath.Join(s.root, "temp", name+ext)
	if err := os.WriteFile(tempPath, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	finalRel := filepath.Join(folder, name+ext)
	if err := os.Rename(tempPath, filepath.Join(s.root, finalRel)); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("move file into place: %w", err)
	}

	return &models.MediaDescriptor{
		Type:         string(class),
		URL:          "/uploads/" + filepath.ToSlash(finalRel),
		Size:         int64(len(raw)),
		OriginalSize: int64(len(raw)),
	}, nil
}

// saveImage validates, normalizes, and writes an image plus its thumbnail.
func (s *Saver) saveImage(raw []byte, name, folder string, originalSize int64) (*models.MediaDescriptor, error) {
	tempPath := filepath.Join(s.root, "temp", name+".jpg")

	img, err := decodeImage(raw)
	if err != nil {
		return nil, err
	}

	// Normalize: cap the longest edge and re-encode as JPEG.
	img = scaleToFit(img, maxEdge)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	if err := os.WriteFile(tempPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write temp image: %w", err)
	}

	finalRel := filepath.Join(folder, name+".jpg")
	if err := os.Rename(tempPath, filepath.Join(s.root, finalRel)); err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("move image into place: %w", err)
	}

	// Thumbnail failures abandon the thumbnail, not the upload.
	thumbRel := filepath.Join("thumbnails", name+".jpg")
	thumbURL := ""
	thumb := scaleToFit(img, thumbEdge)
	var tbuf bytes.Buffer
	if err := jpeg.Encode(&tbuf, thumb, &jpeg.Options{Quality: jpegQuality}); err == nil {
		if err := os.WriteFile(filepath.Join(s.root, thumbRel), tbuf.Bytes(), 0o644); err == nil {
			thumbURL = "/uploads/" + filepath.ToSlash(thumbRel)
		} else {
			slog.Warn("thumbnail write failed", "error", err, "file", thumbRel)
		}
	}

	bounds := img.Bounds()
	return &models.MediaDescriptor{
		Type:         "image",
		URL:          "/uploads/" + filepath.ToSlash(finalRel),
		ThumbnailURL: thumbURL,
		Size:         int64(buf.Len()),
		OriginalSize: originalSize,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
	}, nil
}

// decodeImage decodes and structurally validates an image payload.
func decodeImage(raw []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, maxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// scaleToFit downscales img so its longest edge is at most edge pixels,
// preserving aspect ratio. Images already within bounds are returned
// re-drawn into RGBA (the canonical color mode) without scaling.
func scaleToFit(img image.Image, edge int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longest := w
	if h > longest {
		longest = h
	}

	if longest <= edge {
		// No resize needed; still normalize the color mode.
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Copy(dst, image.Point{}, img, bounds, draw.Over, nil)
		return dst
	}

	ratio := float64(edge) / float64(longest)
	nw := int(float64(w) * ratio)
	nh := int(float64(h) * ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// SweepTemp removes temp files older than maxAge. Run once at startup.
func (s *Saver) SweepTemp(maxAge time.Duration) {
	tempDir := filepath.Join(s.root, "temp")
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		slog.Warn("temp sweep failed", "error", err)
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(tempDir, entry.Name())); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		slog.Info("temp files swept", "removed", removed)
	}
}
