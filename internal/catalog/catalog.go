// Package catalog holds the fixed, ordered list of posts known to the blog.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrDuplicateID is returned by New when two records share an id.
var ErrDuplicateID = errors.New("catalog: duplicate post id")

// Catalog is an immutable, ordered set of posts. It is safe for concurrent
// readers.
type Catalog struct {
	posts []Post
	byID  map[int]int
}

// New validates posts and builds a catalog preserving their order.
func New(posts []Post) (*Catalog, error) {
	c := &Catalog{
		posts: make([]Post, len(posts)),
		byID:  make(map[int]int, len(posts)),
	}
	copy(c.posts, posts)

	for i, p := range c.posts {
		if err := Validate(p); err != nil {
			return nil, fmt.Errorf("post %d: %w", p.ID, err)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = i
	}

	return c, nil
}

// Validate checks the fields every record must carry.
func Validate(p Post) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.Min(1)),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Date, validation.Required),
		validation.Field(&p.Category, validation.Required),
		validation.Field(&p.Filename, validation.Required),
	)
}

// FindByID returns the post with the given id. The bool is false when the
// id is not in the catalog.
func (c *Catalog) FindByID(id int) (Post, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Post{}, false
	}
	return c.posts[i], true
}

// Search returns posts whose title or description contains query,
// case-insensitively, in catalog order. A blank query returns every post.
func (c *Catalog) Search(query string) []Post {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.All()
	}

	needle := strings.ToLower(query)
	results := make([]Post, 0)
	for _, p := range c.posts {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			results = append(results, p)
		}
	}
	return results
}

// All returns a copy of every post in catalog order.
func (c *Catalog) All() []Post {
	out := make([]Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Len returns the number of posts
func (c *Catalog) Len() int {
	return len(c.posts)
}
