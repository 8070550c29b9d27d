package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/renderinc/practice-blog/internal/catalog"
	"github.com/renderinc/practice-blog/internal/logging"
	"github.com/renderinc/practice-blog/internal/sync"
	"github.com/renderinc/practice-blog/internal/view"
	"github.com/renderinc/practice-blog/internal/web"
)

func (a *app) runServe() {
	db := a.openDB()
	defer db.Close()

	idx := a.openIndex()
	defer idx.Close()

	loader := a.newLoader()
	webLogger := logging.WebLogger(a.provider)

	server, err := web.NewServer(a.catalog, loader, db, idx, web.Options{
		BasePath:           a.cfg.BasePath,
		ContentDir:         a.cfg.ContentDir,
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
		Logger:             webLogger,
	})
	if err != nil {
		a.fatal("error creating server", err)
	}

	var scheduler *sync.Scheduler
	if a.cfg.SyncSchedule != "" {
		worker := sync.NewWorker(a.catalog, loader, db, idx, logging.SyncLogger(a.provider))
		scheduler, err = sync.NewScheduler(a.cfg.SyncSchedule, worker, logging.SyncLogger(a.provider))
		if err != nil {
			a.fatal("error creating sync scheduler", err)
		}
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: a.cfg.FetchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Println()
	fmt.Println("=== Practice Blog Web Server ===")
	fmt.Printf("Server running at: http://%s\n", a.cfg.Addr())
	fmt.Printf("Post files:        %s -> %sposts/\n", a.cfg.ContentDir, a.cfg.BasePath)
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		a.logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		a.fatal("server error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
	}
}

func (a *app) runList(query string) {
	printPosts(a.catalog.Search(query), query)
}

func printPosts(posts []catalog.Post, query string) {
	if strings.TrimSpace(query) != "" {
		fmt.Printf("검색어: %s\n", query)
	}
	if len(posts) == 0 {
		fmt.Println("No posts found")
		return
	}

	fmt.Printf("\nFound %d posts:\n\n", len(posts))
	for _, p := range posts {
		fmt.Printf("%d. [%s] %s\n", p.ID, p.Badge().Label, p.Title)
		fmt.Printf("   Date: %s\n", p.Date)
		if p.Description != "" {
			fmt.Printf("   %s\n", p.Description)
		}
		fmt.Printf("   URL: /posts/%d/%s\n", p.ID, p.Slug())
		fmt.Println()
	}
}

func (a *app) runShow(id int) {
	detail := view.NewDetail(a.catalog, a.newLoader(), nil)
	defer detail.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	page := detail.Open(ctx, id)
	switch page.Mode {
	case view.ModeArticle:
		fmt.Printf("[%s] %s\n", page.Badge.Label, page.Post.Date)
		fmt.Printf("# %s\n", page.Post.Title)
		fmt.Printf("%s\n\n", page.Post.Description)
		fmt.Println(page.Result.Content)
	default:
		fmt.Printf("Error: %s\n", page.Message)
		fmt.Printf("Back to: %s\n", page.BackLink)
		os.Exit(1)
	}
}

// runBrowse reads queries from stdin one line at a time. Lines are debounced
// like keystrokes; a blank line clears the query.
func (a *app) runBrowse() {
	listing := view.NewListing(a.catalog, a.cfg.SearchDebounce, func(s view.ListingState) {
		printPosts(s.Results, s.Query)
		fmt.Print("> ")
	})
	defer listing.Close()

	fmt.Printf("Type to search (%v debounce). Blank line clears, Ctrl+D exits.\n", a.cfg.SearchDebounce)
	printPosts(listing.State().Results, "")
	fmt.Print("> ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			listing.Clear()
			continue
		}
		listing.Type(line)
	}
	// let a pending query land before exiting
	time.Sleep(a.cfg.SearchDebounce)
	fmt.Println()
}

func (a *app) runSync() {
	db := a.openDB()
	defer db.Close()

	idx := a.openIndex()
	defer idx.Close()

	worker := sync.NewWorker(a.catalog, a.newLoader(), db, idx, logging.SyncLogger(a.provider))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stats, err := worker.Sync(ctx)
	if err != nil {
		a.fatal("error syncing", err)
	}

	fmt.Println()
	fmt.Println("=== Sync Complete ===")
	fmt.Printf("Total posts:   %d\n", stats.TotalPosts)
	fmt.Printf("New:           %d\n", stats.NewPosts)
	fmt.Printf("Updated:       %d\n", stats.UpdatedPosts)
	fmt.Printf("Skipped:       %d\n", stats.SkippedPosts)
	fmt.Printf("Removed:       %d\n", stats.RemovedPosts)
	fmt.Printf("Errors:        %d\n", stats.Errors)
	fmt.Printf("Duration:      %v\n", stats.Duration)
}

func (a *app) runSearch(query string, limit int) {
	idx := a.openIndex()
	defer idx.Close()

	results, err := idx.Search(query, limit)
	if err != nil {
		a.fatal("error searching", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found")
		return
	}

	fmt.Printf("\nFound %d results:\n\n", len(results))

	for i, result := range results {
		fmt.Printf("%d. %s\n", i+1, result.Title)
		fmt.Printf("   Post: %d (%s, %s)\n", result.PostID, result.Category, result.Date)
		fmt.Printf("   Score: %.3f\n", result.Score)

		if snippets, ok := result.Fragments["Content"]; ok && len(snippets) > 0 {
			fmt.Printf("   Preview: %s\n", snippets[0])
		}
		fmt.Println()
	}
}

func (a *app) runReindex() {
	fmt.Println("Rebuilding search index...")
	fmt.Println()

	db := a.openDB()
	defer db.Close()

	count, err := db.Count()
	if err != nil {
		a.fatal("error counting cached posts", err)
	}
	fmt.Printf("Found %d posts in cache\n", count)
	startTime := time.Now()

	idx := a.openIndex()
	defer idx.Close()

	progressFn := func(current, total int) {
		percent := float64(current) / float64(total) * 100
		fmt.Printf("\rIndexing: %d/%d (%.1f%%)  ", current, total, percent)
	}

	if err := idx.Rebuild(db, a.catalog, progressFn); err != nil {
		a.fatal("error rebuilding index", err)
	}

	indexCount, err := idx.Count()
	if err != nil {
		a.fatal("error getting index count", err)
	}

	fmt.Println()
	fmt.Println()
	fmt.Println("=== Reindex Complete ===")
	fmt.Printf("Posts indexed: %d\n", indexCount)
	fmt.Printf("Duration:      %v\n", time.Since(startTime).Round(time.Millisecond))
}

func (a *app) runStats() {
	db := a.openDB()
	defer db.Close()

	idx := a.openIndex()
	defer idx.Close()

	dbCount, err := db.Count()
	if err != nil {
		a.fatal("error getting database count", err)
	}

	indexCount, err := idx.Count()
	if err != nil {
		a.fatal("error getting index count", err)
	}

	fmt.Println("=== Blog Statistics ===")
	fmt.Printf("Posts in catalog:  %d\n", a.catalog.Len())
	fmt.Printf("Posts in cache:    %d\n", dbCount)
	fmt.Printf("Posts in index:    %d\n", indexCount)
}

func (a *app) runGetDoc(id int) {
	db := a.openDB()
	defer db.Close()

	doc, err := db.Get(id)
	if err != nil {
		a.fatal("error retrieving document", err)
	}

	if doc == nil {
		fmt.Printf("Post not cached: %d (run sync first)\n", id)
		os.Exit(1)
	}

	fmt.Println(doc.Content)
}
