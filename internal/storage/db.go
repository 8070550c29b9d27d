package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps SQLite database operations
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL lets the web server read while a sync writes
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	storage := &DB{db: db}

	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return storage, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

// initSchema creates tables if they don't exist
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS post_contents (
		post_id INTEGER PRIMARY KEY,
		category TEXT NOT NULL,
		filename TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		fetched_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_category ON post_contents(category);
	CREATE INDEX IF NOT EXISTS idx_fetched ON post_contents(fetched_at);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Upsert inserts or updates a post's cached content
func (d *DB) Upsert(pc *PostContent) error {
	query := `
	INSERT INTO post_contents (
		post_id, category, filename, title, content, content_hash, fetched_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(post_id) DO UPDATE SET
		category = excluded.category,
		filename = excluded.filename,
		title = excluded.title,
		content = excluded.content,
		content_hash = excluded.content_hash,
		fetched_at = excluded.fetched_at
	`

	_, err := d.db.Exec(query,
		pc.PostID, pc.Category, pc.Filename, pc.Title, pc.Content, pc.ContentHash, pc.FetchedAt,
	)
	return err
}

// Get retrieves cached content by post id. A missing row returns nil, nil.
func (d *DB) Get(postID int) (*PostContent, error) {
	pc := &PostContent{}
	query := `
	SELECT post_id, category, filename, title, content, content_hash, fetched_at
	FROM post_contents
	WHERE post_id = ?
	`

	err := d.db.QueryRow(query, postID).Scan(
		&pc.PostID, &pc.Category, &pc.Filename, &pc.Title, &pc.Content, &pc.ContentHash, &pc.FetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return pc, nil
}

// List retrieves all cached posts ordered by post id
func (d *DB) List() ([]*PostContent, error) {
	query := `
	SELECT post_id, category, filename, title, content, content_hash, fetched_at
	FROM post_contents
	ORDER BY post_id
	`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PostContent
	for rows.Next() {
		pc := &PostContent{}
		err := rows.Scan(
			&pc.PostID, &pc.Category, &pc.Filename, &pc.Title, &pc.Content, &pc.ContentHash, &pc.FetchedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}

	return out, rows.Err()
}

// Delete removes a post's cached content
func (d *DB) Delete(postID int) error {
	_, err := d.db.Exec("DELETE FROM post_contents WHERE post_id = ?", postID)
	return err
}

// Count returns the number of cached posts
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM post_contents").Scan(&count)
	return count, err
}

// GetContentHash retrieves just the content hash for a post
func (d *DB) GetContentHash(postID int) (string, error) {
	var hash string
	err := d.db.QueryRow("SELECT content_hash FROM post_contents WHERE post_id = ?", postID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}
