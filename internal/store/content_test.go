// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"lexcms/internal/models"
)

func TestContentCreateAndFind(t *testing.T) {
	s := NewContentStore(testDB(t))

	c := &models.Content{
		ID:       "case-deadbeef",
		Type:     models.ContentTypeCase,
		Title:    "Landmark ruling",
		Text:     "Full text of the case summary.",
		Category: "Civil",
		Images: []models.MediaDescriptor{
			{Type: "image", URL: "/uploads/images/a.jpg", ThumbnailURL: "/uploads/thumbnails/a.jpg", Width: 1200, Height: 800},
		},
		Tags:     []string{"civil", "property"},
		Priority: 3,
	}
	if err := s.Create(c); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := s.FindByID("case-deadbeef")
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if got == nil {
		t.Fatal("FindByID() returned nil for existing row")
	}
	if got.Title != c.Title || got.Type != c.Type || got.Category != c.Category {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Images) != 1 || got.Images[0].URL != "/uploads/images/a.jpg" {
		t.Errorf("images not preserved: %+v", got.Images)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "civil" {
		t.Errorf("tags not preserved: %+v", got.Tags)
	}
	if got.Status != models.StatusActive {
		t.Errorf("status: got %q, want Active", got.Status)
	}
}

func TestContentListOrderingAndFilters(t *testing.T) {
	s := NewContentStore(testDB(t))

	seed := []models.Content{
		{ID: "post-1", Type: models.ContentTypePost, Title: "low priority", Priority: 0},
		{ID: "post-2", Type: models.ContentTypePost, Title: "high priority", Priority: 10},
		{ID: "blog-1", Type: models.ContentTypeBlog, Title: "a blog", Category: "News"},
	}
	for i := range seed {
		if err := s.Create(&seed[i]); err != nil {
			t.Fatalf("Create(%s) error: %v", seed[i].ID, err)
		}
	}

	items, total, err := s.List(ContentFilter{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 3 {
		t.Errorf("total: got %d, want 3", total)
	}
	if len(items) != 3 {
		t.Fatalf("items: got %d, want 3", len(items))
	}
	if items[0].ID != "post-2" {
		t.Errorf("highest priority should come first, got %q", items[0].ID)
	}

	items, total, err = s.List(ContentFilter{Type: models.ContentTypeBlog})
	if err != nil {
		t.Fatalf("List(blog) error: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != "blog-1" {
		t.Errorf("type filter: got %d items, total %d", len(items), total)
	}

	items, _, err = s.List(ContentFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List(paginated) error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("pagination: got %d items, want 1", len(items))
	}
}

func TestContentSoftDelete(t *testing.T) {
	s := NewContentStore(testDB(t))

	c := &models.Content{ID: "post-gone", Type: models.ContentTypePost, Title: "bye"}
	if err := s.Create(c); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := s.SoftDelete("post-gone"); err != nil {
		t.Fatalf("SoftDelete() error: %v", err)
	}

	// Gone from active listings and active lookups.
	_, total, err := s.List(ContentFilter{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 0 {
		t.Errorf("active total after delete: got %d, want 0", total)
	}
	active, err := s.FindActiveByID("post-gone")
	if err != nil {
		t.Fatalf("FindActiveByID() error: %v", err)
	}
	if active != nil {
		t.Error("soft-deleted row returned by active lookup")
	}

	// Still reachable by direct id.
	got, err := s.FindByID("post-gone")
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if got == nil {
		t.Fatal("soft-deleted row should remain fetchable by id")
	}
	if got.Status != models.StatusInactive {
		t.Errorf("status: got %q, want Inactive", got.Status)
	}

	// Deleting twice is idempotent.
	if err := s.SoftDelete("post-gone"); err != nil {
		t.Errorf("second SoftDelete() error: %v", err)
	}
}

func TestContentIncrementViews(t *testing.T) {
	s := NewContentStore(testDB(t))

	c := &models.Content{ID: "post-views", Type: models.ContentTypePost, Title: "counted"}
	if err := s.Create(c); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.IncrementViews("post-views"); err != nil {
			t.Fatalf("IncrementViews() error: %v", err)
		}
	}

	got, err := s.FindByID("post-views")
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if got.Views != 3 {
		t.Errorf("views: got %d, want 3", got.Views)
	}
}

func TestContentLegacySingleStringImages(t *testing.T) {
	db := testDB(t)
	s := NewContentStore(db)

	// Simulate a legacy row storing a bare URL in the images column.
	_, err := db.Exec(`
		INSERT INTO content (id, type, title, images, status, created_at, updated_at)
		VALUES ('post-legacy', 'post', 'old row', '/uploads/images/old.jpg', 'Active',
		        CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	got, err := s.FindByID("post-legacy")
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if len(got.Images) != 1 || got.Images[0].URL != "/uploads/images/old.jpg" {
		t.Errorf("legacy images not wrapped: %+v", got.Images)
	}
}

func TestContentPartialUpdateMerge(t *testing.T) {
	s := NewContentStore(testDB(t))

	c := &models.Content{
		ID: "post-merge", Type: models.ContentTypePost,
		Title: "original", Category: "General",
		Images: []models.MediaDescriptor{{Type: "image", URL: "/uploads/images/keep.jpg"}},
	}
	if err := s.Create(c); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Handler-style merge: change title, keep everything else.
	got, _ := s.FindByID("post-merge")
	got.Title = "renamed"
	if err := s.Update(got); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	after, _ := s.FindByID("post-merge")
	if after.Title != "renamed" {
		t.Errorf("title: got %q", after.Title)
	}
	if after.Category != "General" || len(after.Images) != 1 {
		t.Errorf("unset fields not preserved: %+v", after)
	}
}
