package sync

import (
	"context"
	"crypto/md5"
	"fmt"
	"sync"
	"time"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/content"
	"github.com/renderinc/practice-blog/internal/logging"
	"github.com/renderinc/practice-blog/internal/search"
	"github.com/renderinc/practice-blog/internal/storage"
)

const defaultConcurrency = 5

// Worker prefetches every catalog post's content into storage and the
// search index
type Worker struct {
	catalog     *catalog.Catalog
	loader      *content.Loader
	db          *storage.DB
	index       *search.Index
	logger      logging.Logger
	concurrency int
}

// NewWorker creates a new sync worker
func NewWorker(c *catalog.Catalog, loader *content.Loader, db *storage.DB, index *search.Index, logger logging.Logger) *Worker {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Worker{
		catalog:     c,
		loader:      loader,
		db:          db,
		index:       index,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
}

// Stats holds sync statistics
type Stats struct {
	TotalPosts   int
	NewPosts     int
	UpdatedPosts int
	SkippedPosts int
	RemovedPosts int
	Errors       int
	Duration     time.Duration
}

// Sync fetches every post in the catalog. Failed posts are counted and
// logged; Sync itself only fails when ctx is cancelled.
func (w *Worker) Sync(ctx context.Context) (*Stats, error) {
	startTime := time.Now()
	posts := w.catalog.All()
	stats := &Stats{TotalPosts: len(posts)}

	w.logger.Info("sync started", "posts", len(posts), "concurrency", w.concurrency)

	postChan := make(chan catalog.Post, len(posts))
	for _, post := range posts {
		postChan <- post
	}
	close(postChan)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for range w.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for post := range postChan {
				if ctx.Err() != nil {
					return
				}
				if err := w.syncPost(ctx, post, stats, &mu); err != nil {
					w.logger.Warn("sync post failed", "post_id", post.ID, "title", post.Title, "error", err)
					mu.Lock()
					stats.Errors++
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()

	stats.Duration = time.Since(startTime)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("sync cancelled: %w", err)
	}

	removed, err := w.prune()
	if err != nil {
		w.logger.Warn("prune failed", "error", err)
		stats.Errors++
	}
	stats.RemovedPosts = removed
	stats.Duration = time.Since(startTime)

	w.logger.Info("sync complete",
		"new", stats.NewPosts,
		"updated", stats.UpdatedPosts,
		"skipped", stats.SkippedPosts,
		"removed", stats.RemovedPosts,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

// syncPost syncs a single post
func (w *Worker) syncPost(ctx context.Context, post catalog.Post, stats *Stats, mu *sync.Mutex) error {
	res := w.loader.Load(ctx, &post)
	if res.State != content.StateLoaded {
		return fmt.Errorf("load content: %w", res.Err)
	}

	contentHash := fmt.Sprintf("%x", md5.Sum([]byte(res.Content)))

	existingHash, err := w.db.GetContentHash(post.ID)
	if err != nil {
		return fmt.Errorf("get content hash: %w", err)
	}

	if existingHash == contentHash {
		mu.Lock()
		stats.SkippedPosts++
		mu.Unlock()
		return nil
	}

	row := &storage.PostContent{
		PostID:      post.ID,
		Category:    post.Category,
		Filename:    post.Filename,
		Title:       post.Title,
		Content:     res.Content,
		ContentHash: contentHash,
		FetchedAt:   time.Now(),
	}

	if err := w.db.Upsert(row); err != nil {
		return fmt.Errorf("upsert content: %w", err)
	}

	if err := w.index.IndexPost(post, res.Content); err != nil {
		return fmt.Errorf("index post: %w", err)
	}

	mu.Lock()
	if existingHash == "" {
		stats.NewPosts++
	} else {
		stats.UpdatedPosts++
	}
	mu.Unlock()

	w.logger.Debug("post synced", "post_id", post.ID, "title", post.Title)
	return nil
}

// prune drops cached rows and index entries for posts no longer in the
// catalog.
func (w *Worker) prune() (int, error) {
	rows, err := w.db.List()
	if err != nil {
		return 0, fmt.Errorf("list cached posts: %w", err)
	}

	removed := 0
	for _, row := range rows {
		if _, ok := w.catalog.FindByID(row.PostID); ok {
			continue
		}
		if err := w.index.Delete(row.PostID); err != nil {
			return removed, fmt.Errorf("unindex post %d: %w", row.PostID, err)
		}
		if err := w.db.Delete(row.PostID); err != nil {
			return removed, fmt.Errorf("delete cached post %d: %w", row.PostID, err)
		}
		w.logger.Debug("post removed", "post_id", row.PostID, "title", row.Title)
		removed++
	}
	return removed, nil
}
