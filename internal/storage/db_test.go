package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	pc := &PostContent{
		PostID:      1,
		Category:    "ai-summaries",
		Filename:    "vite-project-guide.md",
		Title:       "Vite",
		Content:     "# Hello",
		ContentHash: "abc",
		FetchedAt:   now,
	}
	if err := db.Upsert(pc); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := db.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Content != "# Hello" || got.Filename != "vite-project-guide.md" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if !got.FetchedAt.Equal(now) {
		t.Fatalf("fetched_at mismatch: %v != %v", got.FetchedAt, now)
	}

	pc.Content = "# Changed"
	pc.ContentHash = "def"
	if err := db.Upsert(pc); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	hash, err := db.GetContentHash(1)
	if err != nil || hash != "def" {
		t.Fatalf("expected updated hash, got %q (%v)", hash, err)
	}
	if n, _ := db.Count(); n != 1 {
		t.Fatalf("expected one row, got %d", n)
	}
}

func TestMissingRows(t *testing.T) {
	db := openTestDB(t)

	got, err := db.Get(99)
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", got, err)
	}
	hash, err := db.GetContentHash(99)
	if err != nil || hash != "" {
		t.Fatalf("expected empty hash, got %q, %v", hash, err)
	}
}

func TestListOrdersByPostID(t *testing.T) {
	db := openTestDB(t)
	for _, id := range []int{3, 1, 2} {
		err := db.Upsert(&PostContent{
			PostID: id, Category: "c", Filename: "f.md", Title: "t",
			Content: "x", ContentHash: "h", FetchedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("upsert %d: %v", id, err)
		}
	}

	rows, err := db.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 || rows[0].PostID != 1 || rows[2].PostID != 3 {
		t.Fatalf("unexpected order: %+v", rows)
	}

	if err := db.Delete(2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := db.Count(); n != 2 {
		t.Fatalf("expected two rows after delete, got %d", n)
	}
}
