// Package view holds the state owned by one listing or detail view.
package view

import (
	"sync"
	"time"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/debounce"
)

// ListingState is what a listing view shows.
type ListingState struct {
	Query   string
	Results []catalog.Post
}

// Listing owns the query and filtered posts of one listing view. Typing goes
// through a debouncer; submitting or clearing applies at once.
type Listing struct {
	catalog   *catalog.Catalog
	debouncer *debounce.Debouncer
	onChange  func(ListingState)

	mu    sync.Mutex
	state ListingState
}

// NewListing starts with an empty query showing the whole catalog. onChange
// may be nil; it is called after every applied query.
func NewListing(c *catalog.Catalog, interval time.Duration, onChange func(ListingState)) *Listing {
	l := &Listing{
		catalog:  c,
		onChange: onChange,
		state:    ListingState{Results: c.All()},
	}
	l.debouncer = debounce.New(interval, l.apply)
	return l
}

// Type records a keystroke. The query is applied once typing pauses.
func (l *Listing) Type(q string) {
	l.debouncer.Trigger(q)
}

// Submit applies q immediately.
func (l *Listing) Submit(q string) {
	l.debouncer.Flush(q)
}

// Clear resets the query immediately.
func (l *Listing) Clear() {
	l.debouncer.Flush("")
}

// State returns the applied query and its results.
func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListingState{
		Query:   l.state.Query,
		Results: append([]catalog.Post(nil), l.state.Results...),
	}
}

// Close drops any pending keystroke.
func (l *Listing) Close() {
	l.debouncer.Stop()
}

func (l *Listing) apply(q string) {
	results := l.catalog.Search(q)

	l.mu.Lock()
	l.state = ListingState{Query: q, Results: results}
	l.mu.Unlock()

	if l.onChange != nil {
		l.onChange(ListingState{Query: q, Results: append([]catalog.Post(nil), results...)})
	}
}
