package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/storage"
)

func openMem(t *testing.T) *Index {
	t.Helper()
	idx, err := OpenMem()
	if err != nil {
		t.Fatalf("open mem index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndexAndSearch(t *testing.T) {
	idx := openMem(t)
	c := catalog.Default()

	vite, _ := c.FindByID(1)
	router, _ := c.FindByID(2)
	if err := idx.IndexPost(vite, "Vite uses esbuild for dependency pre-bundling."); err != nil {
		t.Fatalf("index: %v", err)
	}
	if err := idx.IndexPost(router, "createBrowserRouter wires routes."); err != nil {
		t.Fatalf("index: %v", err)
	}

	results, err := idx.Search("esbuild", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].PostID != 1 {
		t.Fatalf("expected post 1, got %+v", results)
	}
	if results[0].Title != vite.Title || results[0].Category != "ai-summaries" {
		t.Fatalf("stored fields missing: %+v", results[0])
	}
	if len(results[0].Fragments["Content"]) == 0 {
		t.Fatalf("expected content fragments: %+v", results[0].Fragments)
	}

	if n, _ := idx.Count(); n != 2 {
		t.Fatalf("expected 2 docs, got %d", n)
	}

	if err := idx.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	results, _ = idx.Search("esbuild", 10)
	if len(results) != 0 {
		t.Fatalf("expected no results after delete, got %+v", results)
	}
}

func TestSearchKoreanTitle(t *testing.T) {
	idx := openMem(t)
	post, _ := catalog.Default().FindByID(3)
	if err := idx.IndexPost(post, "본문"); err != nil {
		t.Fatalf("index: %v", err)
	}

	results, err := idx.Search("레이아웃", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].PostID != 3 {
		t.Fatalf("expected post 3, got %+v", results)
	}
}

func TestRebuildFromStorage(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	c := catalog.Default()
	for _, p := range c.All() {
		err := db.Upsert(&storage.PostContent{
			PostID: p.ID, Category: p.Category, Filename: p.Filename, Title: p.Title,
			Content: "content for " + p.Filename, ContentHash: "h", FetchedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	// rows for posts outside the catalog are ignored
	if err := db.Upsert(&storage.PostContent{
		PostID: 99, Category: "x", Filename: "x.md", Title: "x",
		Content: "orphan", ContentHash: "h", FetchedAt: time.Now(),
	}); err != nil {
		t.Fatalf("upsert orphan: %v", err)
	}

	idx := openMem(t)
	stale := catalog.Post{ID: 42, Title: "stale", Date: "d", Category: "c", Filename: "f.md"}
	if err := idx.IndexPost(stale, "stale"); err != nil {
		t.Fatalf("index stale: %v", err)
	}

	var calls int
	if err := idx.Rebuild(db, c, func(current, total int) { calls++ }); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	if n, _ := idx.Count(); n != uint64(c.Len()) {
		t.Fatalf("expected %d docs, got %d", c.Len(), n)
	}
	if calls != c.Len() {
		t.Fatalf("expected %d progress calls, got %d", c.Len(), calls)
	}
	if results, _ := idx.Search("stale", 10); len(results) != 0 {
		t.Fatalf("stale doc survived rebuild: %+v", results)
	}
}
