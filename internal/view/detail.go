package view

import (
	"context"
	"html/template"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/content"
	"github.com/renderinc/practice-blog/internal/render"
)

// BackLink is where the error page sends readers.
const BackLink = "/posts"

// Mode selects which of the three detail layouts a Page uses.
type Mode int

const (
	ModeLoading Mode = iota
	ModeError
	ModeArticle
)

func (m Mode) String() string {
	switch m {
	case ModeError:
		return "error"
	case ModeArticle:
		return "article"
	default:
		return "loading"
	}
}

// Page is everything a detail template needs.
type Page struct {
	Mode     Mode
	Post     catalog.Post
	HasPost  bool
	Badge    catalog.Badge
	Message  string
	BackLink string
	HTML     template.HTML
	Result   content.Result
}

// Detail owns the content session of one detail view.
type Detail struct {
	catalog  *catalog.Catalog
	session  *content.Session
	renderer *render.Renderer
}

// NewDetail opens a detail view with its own session.
func NewDetail(c *catalog.Catalog, loader *content.Loader, renderer *render.Renderer) *Detail {
	if renderer == nil {
		renderer = render.New()
	}
	return &Detail{
		catalog:  c,
		session:  content.NewSession(c, loader),
		renderer: renderer,
	}
}

// Open loads post id and returns the page for the session's state once the
// fetch settles. A call superseded by a later Open gets the newer post's
// page.
func (d *Detail) Open(ctx context.Context, id int) Page {
	return d.PageFor(d.session.Load(ctx, id))
}

// Current returns the page for the session's latest applied state.
func (d *Detail) Current() Page {
	return d.PageFor(d.session.State())
}

// PageFor maps a load result onto a page.
func (d *Detail) PageFor(res content.Result) Page {
	page := Page{Result: res, BackLink: BackLink}
	if post, ok := d.catalog.FindByID(res.PostID); ok {
		page.Post = post
		page.HasPost = true
		page.Badge = post.Badge()
	}

	switch res.State {
	case content.StateFailed:
		page.Mode = ModeError
		page.Message = res.Reason
	case content.StateLoaded:
		html, err := d.renderer.Render(res.Content)
		if err != nil {
			page.Mode = ModeError
			page.Message = "an error occurred while rendering the post"
			return page
		}
		page.Mode = ModeArticle
		page.HTML = html
	default:
		page.Mode = ModeLoading
	}
	return page
}

// Close ends the session; a load still in flight is discarded.
func (d *Detail) Close() {
	d.session.Close()
}
