package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testFetcher(cfg Config) *Fetcher {
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Millisecond
	}
	return New(cfg)
}

func TestFetchBodyAndHash(t *testing.T) {
	// WHAT: A plain 200 returns the body, its SHA-256, the caching headers,
	// and Changed=true.
	// WHY: The hash and headers feed the page cache's conditional-GET path.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		w.Write([]byte("<html>spec</html>"))
	}))
	defer srv.Close()

	res, err := testFetcher(Config{}).Fetch(context.Background(), srv.URL, "", "", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(res.Body) != "<html>spec</html>" {
		t.Errorf("body: got %q", res.Body)
	}
	if len(res.Hash) != 64 {
		t.Errorf("hash: got %q", res.Hash)
	}
	if res.ETag != `"v1"` || res.LastMod == "" {
		t.Errorf("caching headers: etag %q lastmod %q", res.ETag, res.LastMod)
	}
	if !res.Changed {
		t.Error("first fetch should be Changed")
	}
}

func TestFetchNotModified(t *testing.T) {
	// WHAT: When the server answers 304 to our conditional headers, the
	// result is Changed=false with no body.
	// WHY: Re-extraction is skipped for unchanged pages.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != `"v1"` {
			t.Errorf("If-None-Match: got %q", r.Header.Get("If-None-Match"))
		}
		if r.Header.Get("If-Modified-Since") == "" {
			t.Error("If-Modified-Since missing")
		}
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	res, err := testFetcher(Config{}).Fetch(context.Background(), srv.URL, `"v1"`, "Mon, 02 Jan 2006 15:04:05 GMT", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.Changed {
		t.Error("304 must report Changed=false")
	}
	if res.StatusCode != http.StatusNotModified {
		t.Errorf("status: got %d", res.StatusCode)
	}
	if len(res.Body) != 0 {
		t.Errorf("body on 304: got %q", res.Body)
	}
}

func TestFetchUnchangedHash(t *testing.T) {
	// WHAT: A 200 whose body hashes to the caller's previous hash reports
	// Changed=false.
	// WHY: Servers without ETag support still get change detection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("same content"))
	}))
	defer srv.Close()

	f := testFetcher(Config{})
	first, err := f.Fetch(context.Background(), srv.URL, "", "", "")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := f.Fetch(context.Background(), srv.URL, "", "", first.Hash)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if second.Changed {
		t.Error("identical body must report Changed=false")
	}
	if string(second.Body) != "same content" {
		t.Errorf("body still returned: got %q", second.Body)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	// WHAT: 5xx responses are retried with backoff until one succeeds.
	// WHY: Vendor sites throw transient 502/503s; one flake should not
	// fail a run.
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	res, err := testFetcher(Config{Retries: 2}).Fetch(context.Background(), srv.URL, "", "", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
	if string(res.Body) != "ok" {
		t.Errorf("body: got %q", res.Body)
	}
}

func TestFetchNoRetryOnClientError(t *testing.T) {
	// WHAT: A 404 fails immediately without retries.
	// WHY: Client errors will not heal; retrying them just hammers the
	// server.
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testFetcher(Config{Retries: 2}).Fetch(context.Background(), srv.URL, "", "", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestFetchRetriesExhausted(t *testing.T) {
	// WHAT: Persistent 5xx surfaces the last error after all attempts.
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testFetcher(Config{Retries: 2}).Fetch(context.Background(), srv.URL, "", "", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error: got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestFetchBlockedURL(t *testing.T) {
	// WHAT: Non-http schemes and hostless URLs are rejected before any
	// request goes out.
	f := testFetcher(Config{})
	for _, raw := range []string{"ftp://example.com/a", "file:///etc/passwd", "http://"} {
		_, err := f.Fetch(context.Background(), raw, "", "", "")
		if !errors.Is(err, ErrBlockedURL) {
			t.Errorf("%s: got %v, want ErrBlockedURL", raw, err)
		}
	}
}

func TestFetchBodySizeCap(t *testing.T) {
	// WHAT: Bodies are truncated at MaxBytes.
	// WHY: A runaway response must not exhaust memory; spec pages are
	// never this large.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 1000)))
	}))
	defer srv.Close()

	res, err := testFetcher(Config{MaxBytes: 100}).Fetch(context.Background(), srv.URL, "", "", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(res.Body) != 100 {
		t.Errorf("body length: got %d, want 100", len(res.Body))
	}
}

func TestFetchRedirectValidated(t *testing.T) {
	// WHAT: Redirect targets go through the URL validator too.
	// WHY: An allowed URL must not be a springboard to a blocked one.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://internal.test/secret", http.StatusFound)
	}))
	defer srv.Close()

	blockInternal := func(raw string) error {
		if strings.Contains(raw, "internal.test") {
			return ErrBlockedURL
		}
		return ValidateURL(raw)
	}
	_, err := testFetcher(Config{URLValidator: blockInternal}).Fetch(context.Background(), srv.URL, "", "", "")
	if err == nil {
		t.Fatal("expected redirect to be blocked")
	}
	if !strings.Contains(err.Error(), "redirect blocked") {
		t.Errorf("error: got %v", err)
	}
}

func TestFetchContextCancelledDuringBackoff(t *testing.T) {
	// WHAT: Cancelling the context during retry backoff aborts promptly.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testFetcher(Config{Retries: 2, Backoff: time.Hour}).Fetch(ctx, srv.URL, "", "", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
