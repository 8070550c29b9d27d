package catalog

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

// frontMatter is the metadata block at the top of a post file. Category and
// filename come from the file's location.
type frontMatter struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
}

// LoadDir builds a catalog from posts/<category>/<filename>.md files in fsys,
// reading each file's front matter. Posts are ordered by id.
func LoadDir(fsys fs.FS) (*Catalog, error) {
	var posts []Post

	err := fs.WalkDir(fsys, "posts", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		parts := strings.Split(p, "/")
		if len(parts) != 3 {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}

		var meta frontMatter
		if _, err := frontmatter.Parse(bytes.NewReader(data), &meta); err != nil {
			return fmt.Errorf("parse front matter %s: %w", p, err)
		}
		if meta.ID == 0 {
			// files without an id are drafts
			return nil
		}

		posts = append(posts, Post{
			ID:          meta.ID,
			Title:       meta.Title,
			Date:        meta.Date,
			Category:    parts[1],
			Description: meta.Description,
			Filename:    path.Base(p),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})

	return New(posts)
}
