package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	goerrors "github.com/goliatone/go-errors"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/content"
	"github.com/renderinc/practice-blog/internal/search"
)

// apiPost is a catalog post as the API returns it
type apiPost struct {
	catalog.Post
	Badge catalog.Badge `json:"badge"`
	Slug  string        `json:"slug"`
	URL   string        `json:"url"`
}

func toAPIPost(p catalog.Post) apiPost {
	return apiPost{Post: p, Badge: p.Badge(), Slug: p.Slug(), URL: permalink(p)}
}

type PostsResponse struct {
	Query string    `json:"query"`
	Count int       `json:"count"`
	Posts []apiPost `json:"posts"`
}

type SearchResponse struct {
	Results []*search.SearchResult `json:"results"`
	Query   string                 `json:"query"`
	Count   int                    `json:"count"`
	Error   string                 `json:"error,omitempty"`
}

func (s *Server) handleAPIPosts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	posts := s.catalog.Search(query)

	out := make([]apiPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, toAPIPost(p))
	}
	writeJSON(w, http.StatusOK, PostsResponse{Query: query, Count: len(out), Posts: out})
}

func (s *Server) handleAPIPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, found := s.catalog.FindByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, toAPIPost(post))
}

func (s *Server) handleAPIContent(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	session := content.NewSession(s.catalog, s.loader)
	defer session.Close()

	res := session.Load(r.Context(), id)
	writeJSON(w, statusFor(res), res)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, SearchResponse{Results: []*search.SearchResult{}})
		return
	}
	if s.idx == nil {
		writeError(w, http.StatusServiceUnavailable, "search index not available")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	results, err := s.idx.Search(query, limit)
	if err != nil {
		s.logger.Warn("search failed", "query", query, "error", err)
		writeJSON(w, http.StatusBadRequest, SearchResponse{
			Results: []*search.SearchResult{},
			Query:   query,
			Error:   "search failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Results: results, Query: query, Count: len(results)})
}

func (s *Server) handleGetDoc(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Missing or invalid id parameter", http.StatusBadRequest)
		return
	}
	if s.db == nil {
		http.Error(w, "Content cache not available", http.StatusServiceUnavailable)
		return
	}

	doc, err := s.db.Get(id)
	if err != nil {
		s.logger.Error("error retrieving document", "post_id", id, "error", err)
		http.Error(w, "Error retrieving document", http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(doc.Content))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":        "ok",
		"posts_catalog": s.catalog.Len(),
	}
	if s.db != nil {
		dbCount, _ := s.db.Count()
		resp["documents_in_db"] = dbCount
	}
	if s.idx != nil {
		indexCount, _ := s.idx.Count()
		resp["documents_in_index"] = indexCount
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor is 404 for an unknown post and 502 for any fetch failure.
func statusFor(res content.Result) int {
	if res.State == content.StateLoaded {
		return http.StatusOK
	}
	if goerrors.IsCategory(res.Err, goerrors.CategoryNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func postID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
