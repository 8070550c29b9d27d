package storage

import "time"

// PostContent is a cached copy of one post's markdown
type PostContent struct {
	PostID      int       `db:"post_id"`
	Category    string    `db:"category"`
	Filename    string    `db:"filename"`
	Title       string    `db:"title"`
	Content     string    `db:"content"` // Markdown, verbatim
	ContentHash string    `db:"content_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}
