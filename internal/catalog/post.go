package catalog

import (
	"github.com/gosimple/slug"
)

// CategoryLearning is the only category rendered with the learning badge.
const CategoryLearning = "my-learning"

// Post is the metadata for one blog article
type Post struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date" yaml:"date"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
	Filename    string `json:"filename" yaml:"filename"`
}

// Badge is the display label attached to a post's category
type Badge struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

var (
	BadgeLearning = Badge{Kind: "learning", Label: "📖 학습"}
	BadgeAI       = Badge{Kind: "ai", Label: "🤖 AI"}
)

// Badge maps the category to its badge. Anything other than my-learning
// falls back to the AI badge.
func (p Post) Badge() Badge {
	if p.Category == CategoryLearning {
		return BadgeLearning
	}
	return BadgeAI
}

// Slug returns a URL-friendly form of the title for permalinks
func (p Post) Slug() string {
	s := slug.Make(p.Title)
	if s == "" {
		return "post"
	}
	return s
}
