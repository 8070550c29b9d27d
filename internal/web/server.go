package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/content"
	"github.com/renderinc/practice-blog/internal/logging"
	"github.com/renderinc/practice-blog/internal/render"
	"github.com/renderinc/practice-blog/internal/search"
	"github.com/renderinc/practice-blog/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

var pageNames = []string{"home", "about", "posts", "post", "notfound"}

// Options configures the parts of the server that come from config.
type Options struct {
	// BasePath is the prefix post files are served under, e.g. /practice/.
	BasePath string
	// ContentDir holds posts/<category>/<file>.md. Empty disables serving.
	ContentDir         string
	CORSAllowedOrigins []string
	Logger             logging.Logger
}

type Server struct {
	catalog   *catalog.Catalog
	loader    *content.Loader
	renderer  *render.Renderer
	db        *storage.DB
	idx       *search.Index
	opts      Options
	logger    logging.Logger
	pages     map[string]*template.Template
	minifier  *minify.M
	stylesCSS []byte
}

// NewServer wires the handlers. db and idx may be nil, in which case the
// endpoints that need them answer 503.
func NewServer(c *catalog.Catalog, loader *content.Loader, db *storage.DB, idx *search.Index, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NoOp()
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)

	renderer := render.New()

	rawCSS, err := fs.ReadFile(staticFS, "static/style.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	sheet := bytes.NewBuffer(rawCSS)
	sheet.WriteString("\n")
	if err := renderer.WriteCSS(sheet); err != nil {
		return nil, fmt.Errorf("code highlight stylesheet: %w", err)
	}
	styles, err := m.Bytes("text/css", sheet.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify stylesheet: %w", err)
	}

	return &Server{
		catalog:   c,
		loader:    loader,
		renderer:  renderer,
		db:        db,
		idx:       idx,
		opts:      opts,
		logger:    opts.Logger,
		pages:     pages,
		minifier:  m,
		stylesCSS: styles,
	}, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.NotFound(s.handleNotFound)

	r.Get("/health", s.handleHealth)
	r.Get("/static/style.css", s.handleStyles)

	if s.opts.ContentDir != "" {
		prefix := contentPrefix(s.opts.BasePath)
		files := http.StripPrefix(prefix, markdownTypes(http.FileServer(http.Dir(s.opts.ContentDir))))
		r.Handle(prefix+"/posts/*", files)
	}

	r.Get("/", s.handleHome)
	r.Get("/about", s.handleAbout)
	r.Get("/posts", s.handlePosts)
	r.Get("/posts/{id:[0-9]+}", s.handlePost)
	r.Get("/posts/{id:[0-9]+}/{slug}", s.handlePost)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/posts", s.handleAPIPosts)
		r.Get("/posts/{id}", s.handleAPIPost)
		r.Get("/posts/{id}/content", s.handleAPIContent)
		r.Get("/search", s.handleSearch)
		r.Get("/doc", s.handleGetDoc)
	})

	return r
}

// contentPrefix turns a base path into the route prefix post files live
// under: "/practice/" -> "/practice", "/" -> "".
func contentPrefix(basePath string) string {
	prefix := path.Join("/", basePath)
	if prefix == "/" {
		return ""
	}
	return prefix
}

// markdownTypes labels .md files, which the mime table does not know.
func markdownTypes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".md") {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(s.stylesCSS)
}
