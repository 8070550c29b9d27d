package view

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/content"
)

func TestListingStartsWithWholeCatalog(t *testing.T) {
	c := catalog.Default()
	l := NewListing(c, time.Hour, nil)
	defer l.Close()

	if got := l.State(); got.Query != "" || len(got.Results) != c.Len() {
		t.Fatalf("unexpected initial state: %+v", got)
	}
}

func TestListingTypeIsDebounced(t *testing.T) {
	changes := make(chan ListingState, 4)
	l := NewListing(catalog.Default(), 20*time.Millisecond, func(s ListingState) { changes <- s })
	defer l.Close()

	l.Type("v")
	l.Type("vi")
	l.Type("vite")

	select {
	case s := <-changes:
		if s.Query != "vite" {
			t.Fatalf("expected vite, got %q", s.Query)
		}
		if len(s.Results) != 1 || s.Results[0].ID != 1 {
			t.Fatalf("expected only post 1, got %+v", s.Results)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced query never applied")
	}

	select {
	case s := <-changes:
		t.Fatalf("unexpected extra change: %+v", s)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestListingClearAppliesImmediately(t *testing.T) {
	c := catalog.Default()
	l := NewListing(c, time.Hour, nil)
	defer l.Close()

	l.Submit("layout")
	if got := l.State(); len(got.Results) != 1 || got.Results[0].ID != 3 {
		t.Fatalf("expected post 3, got %+v", got.Results)
	}

	l.Type("zzz")
	l.Clear()
	if got := l.State(); got.Query != "" || len(got.Results) != c.Len() {
		t.Fatalf("clear did not reset listing: %+v", got)
	}
}

type stubFetcher struct {
	body string
	err  error
}

func (f stubFetcher) Fetch(context.Context, string) (string, error) {
	return f.body, f.err
}

func TestDetailArticlePage(t *testing.T) {
	c := catalog.Default()
	loader := content.NewLoader("/practice/", stubFetcher{body: "# Hello\n\nUse `vite`."}, nil)
	d := NewDetail(c, loader, nil)
	defer d.Close()

	if page := d.Current(); page.Mode != ModeLoading {
		t.Fatalf("expected loading before open, got %v", page.Mode)
	}

	page := d.Open(context.Background(), 1)
	if page.Mode != ModeArticle {
		t.Fatalf("expected article, got %v (%s)", page.Mode, page.Message)
	}
	if !page.HasPost || page.Post.ID != 1 || page.Badge != catalog.BadgeAI {
		t.Fatalf("unexpected post meta: %+v", page)
	}
	if !strings.Contains(string(page.HTML), `<h1 id="hello">Hello</h1>`) {
		t.Fatalf("unexpected html: %s", page.HTML)
	}
}

func TestDetailErrorPages(t *testing.T) {
	c := catalog.Default()

	notFound := NewDetail(c, content.NewLoader("/", stubFetcher{}, nil), nil)
	defer notFound.Close()
	page := notFound.Open(context.Background(), 42)
	if page.Mode != ModeError || page.HasPost || page.BackLink != "/posts" {
		t.Fatalf("unexpected not found page: %+v", page)
	}
	if page.Message != "post not found" {
		t.Fatalf("unexpected message %q", page.Message)
	}

	status := NewDetail(c, content.NewLoader("/", stubFetcher{err: &content.StatusError{Status: 404}}, nil), nil)
	defer status.Close()
	page = status.Open(context.Background(), 2)
	if page.Mode != ModeError || !strings.Contains(page.Message, "404") {
		t.Fatalf("unexpected status page: %+v", page)
	}

	network := NewDetail(c, content.NewLoader("/", stubFetcher{err: errors.New("dial tcp: refused")}, nil), nil)
	defer network.Close()
	page = network.Open(context.Background(), 2)
	if page.Mode != ModeError || page.Result.Kind != content.KindNetwork {
		t.Fatalf("unexpected network page: %+v", page)
	}
}

// blockingFetcher holds fetches of one path until ctx is cancelled.
type blockingFetcher struct {
	blocked string
	started chan struct{}
}

func (f blockingFetcher) Fetch(ctx context.Context, path string) (string, error) {
	if strings.HasSuffix(path, f.blocked) {
		close(f.started)
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "# Second", nil
}

func TestDetailSupersededOpenShowsNewerPost(t *testing.T) {
	c := catalog.Default()
	first, _ := c.FindByID(1)
	fetcher := blockingFetcher{blocked: first.Filename, started: make(chan struct{})}
	d := NewDetail(c, content.NewLoader("/", fetcher, nil), nil)
	defer d.Close()

	pages := make(chan Page, 1)
	go func() { pages <- d.Open(context.Background(), 1) }()
	<-fetcher.started

	second := d.Open(context.Background(), 2)
	if second.Mode != ModeArticle || second.Post.ID != 2 {
		t.Fatalf("expected article for post 2, got %+v", second)
	}

	select {
	case page := <-pages:
		if page.Mode == ModeError || page.Post.ID != 2 {
			t.Fatalf("superseded open rendered its own outcome: %+v", page)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded open never returned")
	}
}
