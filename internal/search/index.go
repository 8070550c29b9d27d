package search

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/storage"
)

// Index wraps a Bleve search index over synced post content
type Index struct {
	index bleve.Index
}

// IndexedPost is what gets stored in the index for one post
type IndexedPost struct {
	PostID      int
	Title       string
	Description string
	Content     string
	Category    string
	Date        string
}

// SearchResult represents a search result
type SearchResult struct {
	PostID    int                 `json:"post_id"`
	Title     string              `json:"title"`
	Category  string              `json:"category"`
	Date      string              `json:"date"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"` // Highlighted snippets
}

// Open opens or creates a Bleve index at path
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// OpenMem creates an index that lives only in memory
func OpenMem() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx}, nil
}

// buildIndexMapping analyzes text with the CJK analyzer so Korean titles and
// bodies are split into bigrams. The default analyzer matches it so the _all
// field is queried with the same tokens.
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = cjk.AnalyzerName

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Index = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", textFieldMapping)
	docMapping.AddFieldMappingsAt("Description", textFieldMapping)
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)
	docMapping.AddFieldMappingsAt("Category", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Date", storedOnly)
	docMapping.AddFieldMappingsAt("PostID", bleve.NewNumericFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = cjk.AnalyzerName
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Close closes the index
func (i *Index) Close() error {
	return i.index.Close()
}

// IndexPost adds or updates a post in the index
func (i *Index) IndexPost(post catalog.Post, content string) error {
	doc := toIndexed(post, content)
	return i.index.Index(docID(doc.PostID), doc)
}

// Delete removes a post from the index
func (i *Index) Delete(postID int) error {
	return i.index.Delete(docID(postID))
}

// Search runs a query string query (quotes, +/-, fuzzy ~) and returns hits
// with highlighted fragments.
func (i *Index) Search(queryStr string, limit int) ([]*SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	query := bleve.NewQueryStringQuery(queryStr)

	search := bleve.NewSearchRequestOptions(query, limit, 0, false)
	search.Highlight = bleve.NewHighlightWithStyle("html")
	search.Fields = []string{"Title", "Category", "Date"}

	results, err := i.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	searchResults := make([]*SearchResult, 0, len(results.Hits))
	for _, hit := range results.Hits {
		result := &SearchResult{
			Score:     hit.Score,
			Fragments: hit.Fragments,
		}

		if id, err := strconv.Atoi(hit.ID); err == nil {
			result.PostID = id
		}
		if title, ok := hit.Fields["Title"].(string); ok {
			result.Title = title
		}
		if category, ok := hit.Fields["Category"].(string); ok {
			result.Category = category
		}
		if date, ok := hit.Fields["Date"].(string); ok {
			result.Date = date
		}

		searchResults = append(searchResults, result)
	}

	return searchResults, nil
}

// Rebuild replaces the index contents with every post cached in db.
// Description and date come from the catalog; rows for posts no longer in
// the catalog are skipped. progress may be nil.
func (i *Index) Rebuild(db *storage.DB, c *catalog.Catalog, progress func(current, total int)) error {
	rows, err := db.List()
	if err != nil {
		return fmt.Errorf("list contents: %w", err)
	}

	if err := i.clear(); err != nil {
		return err
	}

	batch := i.index.NewBatch()
	for n, row := range rows {
		post, ok := c.FindByID(row.PostID)
		if !ok {
			continue
		}
		doc := toIndexed(post, row.Content)
		if err := batch.Index(docID(doc.PostID), doc); err != nil {
			return fmt.Errorf("batch index %d: %w", row.PostID, err)
		}
		if progress != nil {
			progress(n+1, len(rows))
		}
	}

	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	return nil
}

// Count returns the number of posts in the index
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// clear deletes every document currently in the index.
func (i *Index) clear() error {
	total, err := i.index.DocCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if total == 0 {
		return nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(total), 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	batch := i.index.NewBatch()
	for _, hit := range res.Hits {
		batch.Delete(hit.ID)
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

func toIndexed(post catalog.Post, content string) *IndexedPost {
	return &IndexedPost{
		PostID:      post.ID,
		Title:       post.Title,
		Description: post.Description,
		Content:     content,
		Category:    post.Category,
		Date:        post.Date,
	}
}

func docID(postID int) string {
	return strconv.Itoa(postID)
}
