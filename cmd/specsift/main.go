// CLAUDE:SUMMARY CLI entry point for specsift — extract, analyze, review, and serve modes.
// Command specsift extracts product parameters from switch spec pages.
//
// Usage:
//
//	specsift -file page.html                       # extract from a local file
//	specsift -url https://example.com/spec.html    # fetch and extract
//	specsift -file page.html -summary              # human-readable summary
//	specsift -file page.html -analyze              # classification report only
//	specsift -file page.html -interactive          # review low-confidence tables
//	specsift -serve :8080                          # run the HTTP API
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ElanGll2023/specsift/analyze"
	"github.com/ElanGll2023/specsift/export"
	"github.com/ElanGll2023/specsift/fetch"
	"github.com/ElanGll2023/specsift/pagecache"
	"github.com/ElanGll2023/specsift/rules"
	"github.com/ElanGll2023/specsift/server"
	"github.com/ElanGll2023/specsift/specsift"
	"github.com/ElanGll2023/specsift/wizard"
)

func main() {
	file := flag.String("file", "", "extract from a local HTML file")
	url := flag.String("url", "", "fetch a URL and extract")
	profile := flag.String("profile", "", "rule profile name (default: auto-detect)")
	rulesDir := flag.String("rules", "", "directory with rules/ and profiles/ YAML")
	cachePath := flag.String("cache", "", "SQLite page cache path (empty disables caching)")
	out := flag.String("out", "", "write JSON result to file (default: stdout)")
	markdownOut := flag.String("md", "", "also write the page as markdown to file")
	summary := flag.Bool("summary", false, "print a human-readable summary instead of JSON")
	analyzeMode := flag.Bool("analyze", false, "print the classification report instead of extracting")
	template := flag.String("template", "", "with -analyze: write a profile template YAML under this name")
	interactive := flag.Bool("interactive", false, "review low-confidence tables and save rules")
	serveAddr := flag.String("serve", "", "run the HTTP API on this address")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		file:        *file,
		url:         *url,
		profile:     *profile,
		rulesDir:    *rulesDir,
		cachePath:   *cachePath,
		out:         *out,
		markdownOut: *markdownOut,
		summary:     *summary,
		analyze:     *analyzeMode,
		template:    *template,
		interactive: *interactive,
		serveAddr:   *serveAddr,
	}
	if err := run(ctx, logger, opts); err != nil {
		logger.Error("specsift: fatal", "error", err)
		os.Exit(1)
	}
}

type options struct {
	file, url, profile, rulesDir, cachePath string
	out, markdownOut, template              string
	summary, analyze, interactive           bool
	serveAddr                               string
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	ruleEngine, err := rules.NewEngine(rules.Config{Dir: opts.rulesDir, Logger: logger})
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	engine := specsift.New(specsift.Config{Rules: ruleEngine, Logger: logger})

	var cache *pagecache.Store
	if opts.cachePath != "" {
		db, err := pagecache.Open(opts.cachePath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer db.Close()
		cache = pagecache.NewStore(db)
	}

	if opts.serveAddr != "" {
		return runServe(ctx, logger, engine, cache, opts.serveAddr)
	}

	if opts.file == "" && opts.url == "" {
		fmt.Fprintln(os.Stderr, "usage: specsift -file <path> | -url <url> | -serve <addr>")
		os.Exit(1)
		return nil
	}

	htmlText, pageURL, err := loadPage(ctx, logger, cache, opts)
	if err != nil {
		return err
	}

	if opts.markdownOut != "" {
		md := export.NewMarkdown().Render(htmlText, pageURL)
		if err := os.WriteFile(opts.markdownOut, []byte(md+"\n"), 0o644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
	}

	if opts.analyze {
		return runAnalyze(htmlText, pageURL, ruleEngine, opts)
	}

	if opts.interactive {
		if err := runReview(htmlText, pageURL, ruleEngine, logger, opts); err != nil {
			return err
		}
	}

	result := engine.Extract(htmlText, pageURL, opts.profile)

	w := os.Stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if opts.summary {
		_, err := fmt.Fprint(w, export.Summary(result))
		return err
	}
	return export.WriteJSON(w, result)
}

// loadPage reads the HTML either from disk or over HTTP, consulting the
// page cache when one is configured.
func loadPage(ctx context.Context, logger *slog.Logger, cache *pagecache.Store, opts options) (htmlText, pageURL string, err error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", "", fmt.Errorf("read file: %w", err)
		}
		return string(data), opts.url, nil
	}

	var etag, lastMod, prevHash, prevHTML string
	if cache != nil {
		if p, err := cache.GetPage(ctx, opts.url); err == nil {
			etag, lastMod, prevHash, prevHTML = p.ETag, p.LastMod, p.Hash, p.HTML
		}
	}

	fetcher := fetch.New(fetch.Config{})
	res, err := fetcher.Fetch(ctx, opts.url, etag, lastMod, prevHash)
	if err != nil {
		if prevHTML != "" {
			logger.Warn("fetch failed, using cached page", "url", opts.url, "error", err)
			return prevHTML, opts.url, nil
		}
		return "", "", fmt.Errorf("fetch: %w", err)
	}
	if !res.Changed && prevHTML != "" {
		logger.Info("page unchanged, using cache", "url", opts.url)
		return prevHTML, opts.url, nil
	}

	htmlText = string(res.Body)
	if cache != nil {
		err := cache.UpsertPage(ctx, &pagecache.Page{
			URL:     opts.url,
			HTML:    htmlText,
			Hash:    res.Hash,
			ETag:    res.ETag,
			LastMod: res.LastMod,
		})
		if err != nil {
			logger.Warn("cache page", "url", opts.url, "error", err)
		}
	}
	return htmlText, opts.url, nil
}

func runAnalyze(htmlText, pageURL string, ruleEngine *rules.Engine, opts options) error {
	report, err := analyze.Analyze(htmlText, pageURL, ruleEngine)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	report.SortParamsByFrequency()

	if opts.template != "" {
		tpl, err := analyze.ProfileTemplate(opts.template, report)
		if err != nil {
			return err
		}
		path := opts.template + ".yaml"
		if err := os.WriteFile(path, []byte(tpl), 0o644); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
		fmt.Fprintf(os.Stderr, "profile template written to %s\n", path)
	}

	w := os.Stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	return writeReportJSON(w, report)
}

func runReview(htmlText, pageURL string, ruleEngine *rules.Engine, logger *slog.Logger, opts options) error {
	report, err := analyze.Analyze(htmlText, pageURL, ruleEngine)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	profileName := opts.profile
	if profileName == "" {
		profileName = report.SuggestedProfile
	}
	if profileName == "" {
		profileName = "reviewed"
	}

	wz, err := wizard.New(wizard.Config{
		Rules:  ruleEngine,
		In:     os.Stdin,
		Out:    os.Stderr,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	if _, err := wz.Review(report, profileName); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, logger *slog.Logger, engine *specsift.Engine, cache *pagecache.Store, addr string) error {
	srv, err := server.New(server.Config{
		Engine:  engine,
		Fetcher: fetch.New(fetch.Config{}),
		Cache:   cache,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{Addr: addr, Handler: srv.Router()}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return httpSrv.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeReportJSON(w *os.File, report *analyze.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
