// CLAUDE:SUMMARY HTTP API over the extraction engine: extract, analyze, profile CRUD, health.
// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ElanGll2023/specsift/analyze"
	"github.com/ElanGll2023/specsift/fetch"
	"github.com/ElanGll2023/specsift/pagecache"
	"github.com/ElanGll2023/specsift/rules"
	"github.com/ElanGll2023/specsift/specsift"
)

// Config configures the API server.
type Config struct {
	Engine  *specsift.Engine // required
	Fetcher *fetch.Fetcher   // nil disables URL-based extraction
	Cache   *pagecache.Store // nil disables page caching
	Logger  *slog.Logger
	// MaxBodyBytes caps request bodies. Default: 10MB.
	MaxBodyBytes int64
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 10 * 1024 * 1024
	}
}

// Server handles API requests.
type Server struct {
	engine  *specsift.Engine
	rules   *rules.Engine
	fetcher *fetch.Fetcher
	cache   *pagecache.Store
	logger  *slog.Logger
	maxBody int64
}

// New creates a Server. cfg.Engine must be set.
func New(cfg Config) (*Server, error) {
	cfg.defaults()
	if cfg.Engine == nil {
		return nil, fmt.Errorf("server: Config.Engine is required")
	}
	return &Server{
		engine:  cfg.Engine,
		rules:   cfg.Engine.Rules(),
		fetcher: cfg.Fetcher,
		cache:   cfg.Cache,
		logger:  cfg.Logger,
		maxBody: cfg.MaxBodyBytes,
	}, nil
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/extract", s.handleExtract)
	r.Post("/api/analyze", s.handleAnalyze)

	r.Route("/api/profiles", func(r chi.Router) {
		r.Get("/", s.handleListProfiles)
		r.Post("/", s.handleAddProfile)
		r.Get("/{name}", s.handleGetProfile)
		r.Post("/{name}/rules", s.handleUpdateRule)
	})

	return r
}

// ExtractRequest is the payload for POST /api/extract.
// Exactly one of HTML or URL must be set; URL requires a configured fetcher.
type ExtractRequest struct {
	HTML    string `json:"html,omitempty"`
	URL     string `json:"url,omitempty"`
	Profile string `json:"profile,omitempty"`
}

// ExtractResponse is the response for POST /api/extract.
type ExtractResponse struct {
	Result specsift.Result `json:"result"`
	Models int             `json:"models"`
	Cached bool            `json:"cached,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decode(w, r, &req); err != nil {
		return
	}
	if (req.HTML == "") == (req.URL == "") {
		s.error(w, http.StatusBadRequest, "exactly one of html or url required")
		return
	}

	htmlText := req.HTML
	pageURL := req.URL
	cached := false
	if req.URL != "" {
		var err error
		htmlText, cached, err = s.pageHTML(r.Context(), req.URL)
		if err != nil {
			s.logger.Error("fetch page", "url", req.URL, "error", err)
			s.error(w, http.StatusBadGateway, err.Error())
			return
		}
	}

	result := s.engine.Extract(htmlText, pageURL, req.Profile)

	if s.cache != nil && req.URL != "" {
		s.recordRun(r.Context(), req.URL, req.Profile, result)
	}

	s.json(w, http.StatusOK, ExtractResponse{
		Result: result,
		Models: len(result),
		Cached: cached,
	})
}

// AnalyzeRequest is the payload for POST /api/analyze.
type AnalyzeRequest struct {
	HTML string `json:"html,omitempty"`
	URL  string `json:"url,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		return
	}
	if (req.HTML == "") == (req.URL == "") {
		s.error(w, http.StatusBadRequest, "exactly one of html or url required")
		return
	}

	htmlText := req.HTML
	if req.URL != "" {
		var err error
		htmlText, _, err = s.pageHTML(r.Context(), req.URL)
		if err != nil {
			s.logger.Error("fetch page", "url", req.URL, "error", err)
			s.error(w, http.StatusBadGateway, err.Error())
			return
		}
	}

	report, err := analyze.Analyze(htmlText, req.URL, s.rules)
	if err != nil {
		s.error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.json(w, http.StatusOK, report)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	s.json(w, http.StatusOK, s.rules.Profiles())
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := s.rules.Profile(name)
	if !ok {
		s.error(w, http.StatusNotFound, "profile not found")
		return
	}
	s.json(w, http.StatusOK, p)
}

func (s *Server) handleAddProfile(w http.ResponseWriter, r *http.Request) {
	var p rules.Profile
	if err := s.decode(w, r, &p); err != nil {
		return
	}
	if p.Name == "" {
		s.error(w, http.StatusBadRequest, "profile name required")
		return
	}
	if err := s.rules.AddProfile(&p); err != nil {
		s.logger.Error("add profile", "name", p.Name, "error", err)
		s.error(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.json(w, http.StatusCreated, p)
}

// UpdateRuleRequest is the payload for POST /api/profiles/{name}/rules.
type UpdateRuleRequest struct {
	Kind rules.RuleKind `json:"kind"`
	Rule rules.Rule     `json:"rule"`
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req UpdateRuleRequest
	if err := s.decode(w, r, &req); err != nil {
		return
	}
	if req.Rule.Name == "" {
		s.error(w, http.StatusBadRequest, "rule name required")
		return
	}
	if err := s.rules.UpdateRule(name, req.Kind, req.Rule); err != nil {
		s.error(w, http.StatusNotFound, err.Error())
		return
	}
	s.json(w, http.StatusOK, req.Rule)
}

// pageHTML serves a page from cache when its content hash is unchanged,
// fetching otherwise. Returns cached=true on a 304 or hash match.
func (s *Server) pageHTML(ctx context.Context, url string) (string, bool, error) {
	if s.fetcher == nil {
		return "", false, fmt.Errorf("url extraction not enabled")
	}

	var etag, lastMod, prevHash, prevHTML string
	if s.cache != nil {
		if p, err := s.cache.GetPage(ctx, url); err == nil {
			etag, lastMod, prevHash, prevHTML = p.ETag, p.LastMod, p.Hash, p.HTML
		}
	}

	res, err := s.fetcher.Fetch(ctx, url, etag, lastMod, prevHash)
	if err != nil {
		if prevHTML != "" {
			return prevHTML, true, nil
		}
		return "", false, err
	}
	if !res.Changed && prevHTML != "" {
		return prevHTML, true, nil
	}

	html := string(res.Body)
	if s.cache != nil {
		err := s.cache.UpsertPage(ctx, &pagecache.Page{
			URL:     url,
			HTML:    html,
			Hash:    res.Hash,
			ETag:    res.ETag,
			LastMod: res.LastMod,
		})
		if err != nil {
			s.logger.Warn("cache page", "url", url, "error", err)
		}
	}
	return html, false, nil
}

func (s *Server) recordRun(ctx context.Context, url, profile string, result specsift.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	var hash string
	if p, err := s.cache.GetPage(ctx, url); err == nil {
		hash = p.Hash
	}
	run := &pagecache.Run{
		URL:        url,
		Profile:    profile,
		PageHash:   hash,
		ResultJSON: string(data),
		ModelCount: len(result),
	}
	if err := s.cache.InsertRun(ctx, run); err != nil {
		s.logger.Warn("record run", "url", url, "error", err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		s.error(w, http.StatusBadRequest, "invalid request body")
		return err
	}
	return nil
}

func (s *Server) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) error(w http.ResponseWriter, status int, msg string) {
	s.json(w, status, map[string]string{"error": msg})
}
