package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/config"
	"github.com/renderinc/practice-blog/internal/content"
	"github.com/renderinc/practice-blog/internal/logging"
	"github.com/renderinc/practice-blog/internal/logging/gologger"
	"github.com/renderinc/practice-blog/internal/search"
	"github.com/renderinc/practice-blog/internal/storage"
)

// app holds what every command needs
type app struct {
	cfg      config.Config
	provider logging.Provider
	logger   logging.Logger
	catalog  *catalog.Catalog
}

func main() {
	// Parse global flags
	globalFlags := flag.NewFlagSet("global", flag.ExitOnError)
	dataDirFlag := globalFlags.String("data-dir", "", "Directory for database and index files (overrides BLOG_DATA_DIR)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Find where the command starts (skip global flags)
	commandIdx := 1
	for i := 1; i < len(os.Args); i++ {
		if !strings.HasPrefix(os.Args[i], "-") {
			commandIdx = i
			break
		}
	}
	if commandIdx > 1 {
		globalFlags.Parse(os.Args[1:commandIdx])
	}

	command := os.Args[commandIdx]
	args := os.Args[commandIdx+1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	a, err := newApp(*dataDirFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "serve":
		serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
		host := serveFlags.String("host", a.cfg.Host, "Host to bind to")
		port := serveFlags.String("port", a.cfg.Port, "Port to listen on")
		serveFlags.Parse(args)

		a.cfg.Host = *host
		a.cfg.Port = *port
		a.runServe()
	case "list":
		a.runList(strings.Join(args, " "))
	case "show":
		if len(args) < 1 {
			fmt.Println("Error: post ID required")
			fmt.Println("Usage: practice-blog [--data-dir=<dir>] show <post-id>")
			os.Exit(1)
		}
		a.runShow(parseID(args[0]))
	case "browse":
		a.runBrowse()
	case "sync":
		a.runSync()
	case "search":
		searchFlags := flag.NewFlagSet("search", flag.ExitOnError)
		limit := searchFlags.Int("limit", 10, "Maximum number of results")
		searchFlags.Parse(args)

		if searchFlags.NArg() < 1 {
			fmt.Println("Error: search query required")
			fmt.Println("Usage: practice-blog [--data-dir=<dir>] search [flags] <query>")
			os.Exit(1)
		}
		a.runSearch(strings.Join(searchFlags.Args(), " "), *limit)
	case "reindex":
		a.runReindex()
	case "stats":
		a.runStats()
	case "get-doc":
		if len(args) < 1 {
			fmt.Println("Error: post ID required")
			fmt.Println("Usage: practice-blog [--data-dir=<dir>] get-doc <post-id>")
			os.Exit(1)
		}
		a.runGetDoc(parseID(args[0]))
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func newApp(dataDir string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		provider: provider,
		logger:   logging.ModuleLogger(provider, ""),
	}

	c, err := loadCatalog(cfg, logging.CatalogLogger(provider))
	if err != nil {
		return nil, err
	}
	a.catalog = c

	return a, nil
}

// loadCatalog reads BLOG_CATALOG_DIR when set and falls back to the seeded
// posts otherwise.
func loadCatalog(cfg config.Config, logger logging.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogDir == "" {
		c := catalog.Default()
		logger.Debug("using seeded catalog", "posts", c.Len())
		return c, nil
	}

	c, err := catalog.LoadDir(os.DirFS(cfg.CatalogDir))
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", cfg.CatalogDir, err)
	}
	logger.Info("catalog loaded", "dir", cfg.CatalogDir, "posts", c.Len())
	return c, nil
}

func (a *app) newLoader() *content.Loader {
	fetcher := content.NewHTTPFetcher(a.cfg.ContentURL(), a.cfg.FetchTimeout)
	return content.NewLoader(a.cfg.BasePath, fetcher, logging.ContentLogger(a.provider))
}

func (a *app) openDB() *storage.DB {
	if err := os.MkdirAll(a.cfg.DataDir, 0755); err != nil {
		a.fatal("error creating data directory", err)
	}
	db, err := storage.Open(a.cfg.DBPath())
	if err != nil {
		a.fatal("error opening database", err)
	}
	return db
}

func (a *app) openIndex() *search.Index {
	if err := os.MkdirAll(a.cfg.DataDir, 0755); err != nil {
		a.fatal("error creating data directory", err)
	}
	idx, err := search.Open(a.cfg.IndexPath())
	if err != nil {
		a.fatal("error opening search index", err)
	}
	return idx
}

func (a *app) fatal(msg string, err error) {
	a.logger.Error(msg, "error", err)
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}

func parseID(raw string) int {
	id, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("Error: invalid post ID %q\n", raw)
		os.Exit(1)
	}
	return id
}

func printUsage() {
	fmt.Println("Practice Blog - markdown blog server and tools")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  practice-blog [global-flags] <command> [flags]")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --data-dir=<dir>  Directory for database and index files (default: BLOG_DATA_DIR or ./data)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve [flags]            Start web server")
	fmt.Println("  list [query]             List posts, optionally filtered by title or description")
	fmt.Println("  show <id>                Load and print a post's markdown")
	fmt.Println("  browse                   Search posts interactively from stdin")
	fmt.Println("  sync                     Fetch every post into the local cache and search index")
	fmt.Println("  search [flags] <query>   Full-text search over synced posts")
	fmt.Println("  reindex                  Rebuild the search index from the cache")
	fmt.Println("  stats                    Show cache and index statistics")
	fmt.Println("  get-doc <id>             Print cached markdown for a post")
	fmt.Println()
	fmt.Println("Serve Flags:")
	fmt.Println("  -host=<host>      Host to bind to (default: BLOG_HOST or localhost)")
	fmt.Println("  -port=<port>      Port to listen on (default: BLOG_PORT or 6893)")
	fmt.Println()
	fmt.Println("Search Flags:")
	fmt.Println("  -limit=<n>        Maximum number of results (default: 10)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  practice-blog serve")
	fmt.Println("  practice-blog list react")
	fmt.Println("  practice-blog show 1")
	fmt.Println("  practice-blog sync")
	fmt.Println("  practice-blog search esbuild")
	fmt.Println("  practice-blog --data-dir=/tmp/blog stats")
}
