package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const page = `<html><head>
<title>  Fallback title </title>
<meta property="og:title" content="Open Graph Title">
<meta property="og:type" content="website">
<meta name="description" content="plain description">
</head><body><img src="/hero.png" width="640"></body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, strings.Replace(page, "Open Graph Title", "Page "+r.URL.Path, 1))
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decode(t *testing.T, line string) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return rec
}

func TestScrapeURL(t *testing.T) {
	ts := newSite(t)
	out, err := run(t, "scrape", ts.URL+"/a", "--with-charset")
	if err != nil {
		t.Fatal(err)
	}
	rec := decode(t, out)
	res := rec["result"].(map[string]any)
	if res["ogTitle"] != "Page /a" || res["charset"] != "utf-8" {
		t.Errorf("result = %v", res)
	}
	if rec["class"].(map[string]any)["label"] != "website" {
		t.Errorf("class = %v", rec["class"])
	}
}

func TestScrapeHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "scrape", "--html-file", path)
	if err != nil {
		t.Fatal(err)
	}
	res := decode(t, out)["result"].(map[string]any)
	if res["ogDescription"] != "plain description" || res["ogImage"] == nil {
		t.Errorf("fallbacks missing: %v", res)
	}

	out, err = run(t, "scrape", "--html-file", path, "--only-og")
	if err != nil {
		t.Fatal(err)
	}
	res = decode(t, out)["result"].(map[string]any)
	if _, ok := res["ogDescription"]; ok {
		t.Errorf("only-og should skip fallbacks: %v", res)
	}
}

func TestScrapeFailure(t *testing.T) {
	ts := newSite(t)
	out, err := run(t, "scrape", ts.URL+"/missing")
	if err == nil {
		t.Fatal("expected error")
	}
	if rec := decode(t, out); rec["errorKind"] != "server_error" {
		t.Errorf("record = %v", rec)
	}
}

func TestScrapeArgs(t *testing.T) {
	if _, err := run(t, "scrape"); err == nil {
		t.Error("expected error without url or file")
	}
	if _, err := run(t, "scrape", "http://a.example", "--html-file", "x.html"); err == nil {
		t.Error("expected error with both url and file")
	}
}

func writeURLs(t *testing.T, ts *httptest.Server, paths ...string) string {
	t.Helper()
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(ts.URL + p + "\n")
	}
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchNDJSON(t *testing.T) {
	ts := newSite(t)
	in := writeURLs(t, ts, "/one", "/missing", "/two")

	out, err := run(t, "batch", "--input", in, "--concurrency", "2")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 records, got %d:\n%s", len(lines), out)
	}
	if decode(t, lines[1])["errorKind"] != "server_error" {
		t.Errorf("second record = %s", lines[1])
	}
	if res := decode(t, lines[2])["result"].(map[string]any); res["ogTitle"] != "Page /two" {
		t.Errorf("third record = %v", res)
	}
}

func TestBatchXLSX(t *testing.T) {
	ts := newSite(t)
	in := writeURLs(t, ts, "/one", "/two")
	outPath := filepath.Join(t.TempDir(), "out.xlsx")

	if _, err := run(t, "batch", "--input", in, "--output", outPath); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("scrapes")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("want header and 2 rows, got %d", len(rows))
	}
}

func TestBatchRequiresInput(t *testing.T) {
	if _, err := run(t, "batch"); err == nil {
		t.Error("expected missing --input error")
	}
}

func TestConfigFile(t *testing.T) {
	ts := newSite(t)
	path := filepath.Join(t.TempDir(), "og.yaml")
	cfg := "fetch:\n  blacklist:\n    - " + ts.URL + "/private\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", path, "scrape", ts.URL+"/private/x")
	if err == nil {
		t.Fatal("expected blacklisted error")
	}
	if rec := decode(t, out); rec["errorKind"] != "blacklisted" {
		t.Errorf("record = %v", rec)
	}
}
