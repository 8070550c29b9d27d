// Package content resolves and fetches the markdown body of catalog posts
// and tracks per-view load sessions.
package content

import (
	"context"
	"fmt"
	"time"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/logging"
)

// Loader fetches post content from {basePath}/posts/{category}/{filename}.
type Loader struct {
	basePath string
	fetcher  Fetcher
	logger   logging.Logger
}

// NewLoader creates a loader. basePath is the deployment URL prefix.
func NewLoader(basePath string, fetcher Fetcher, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Loader{
		basePath: basePath,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// forSession returns a copy of l whose log lines carry sessionID.
func (l *Loader) forSession(sessionID string) *Loader {
	scoped := *l
	scoped.logger = logging.WithFields(l.logger, map[string]any{"session_id": sessionID})
	return &scoped
}

// Path returns the resource path for post.
func (l *Loader) Path(post catalog.Post) string {
	return ResolvePath(l.basePath, post.Category, post.Filename)
}

// Load fetches the content for post and always returns a terminal Result.
// A nil post fails with KindNotFound without fetching.
func (l *Loader) Load(ctx context.Context, post *catalog.Post) (res Result) {
	if post == nil {
		return failed(0, KindNotFound, ErrPostNotFound)
	}

	resourcePath := l.Path(*post)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = failed(post.ID, KindNetwork, fmt.Errorf("fetch %s: panic: %v", resourcePath, r))
			l.logger.Error("content fetch panicked", "post_id", post.ID, "path", resourcePath, "panic", r)
		}
	}()

	l.logger.Debug("fetching content", "post_id", post.ID, "path", resourcePath)

	text, err := l.fetcher.Fetch(ctx, resourcePath)
	if err != nil {
		kind := classify(err)
		l.logger.Warn("content fetch failed",
			"post_id", post.ID,
			"path", resourcePath,
			"kind", kind.String(),
			"error", err,
			"duration", time.Since(start),
		)
		return failed(post.ID, kind, err)
	}

	l.logger.Info("content loaded",
		"post_id", post.ID,
		"path", resourcePath,
		"bytes", len(text),
		"duration", time.Since(start),
	)
	return loaded(post.ID, text)
}

// NotFound is the result for an id that does not resolve to a post.
func (l *Loader) NotFound(id int) Result {
	l.logger.Warn("post not found", "post_id", id)
	return failed(id, KindNotFound, fmt.Errorf("%w: %d", ErrPostNotFound, id))
}
