package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/view"
)

// postView is a catalog post plus its permalink for templates
type postView struct {
	catalog.Post
	URL string
}

func toPostViews(posts []catalog.Post) []postView {
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, postView{Post: p, URL: permalink(p)})
	}
	return out
}

func permalink(p catalog.Post) string {
	return fmt.Sprintf("/posts/%d/%s", p.ID, p.Slug())
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, "home", map[string]any{
		"Posts": toPostViews(s.catalog.All()),
	})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, "about", nil)
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	s.renderPage(w, http.StatusOK, "posts", map[string]any{
		"Query": query,
		"Posts": toPostViews(s.catalog.Search(query)),
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	if post, ok := s.catalog.FindByID(id); ok {
		if slug := chi.URLParam(r, "slug"); slug != "" && slug != post.Slug() {
			http.Redirect(w, r, permalink(post), http.StatusMovedPermanently)
			return
		}
	}

	detail := view.NewDetail(s.catalog, s.loader, s.renderer)
	defer detail.Close()

	page := detail.Open(r.Context(), id)
	s.renderPage(w, statusFor(page.Result), "post", map[string]any{
		"Page": page,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.renderPage(w, http.StatusNotFound, "notfound", nil)
}

// renderPage executes a page into a buffer so a template error can still
// become a 500, then writes it minified.
func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.logger.Error("unknown page template", "page", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("error rendering template", "page", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.minifier.Minify("text/html", w, &buf); err != nil {
		s.logger.Warn("minify page failed", "page", name, "error", err)
	}
}
