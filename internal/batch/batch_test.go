package batch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"og-scraper/internal/models"
	"og-scraper/pkg/ogscraper"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><head>
<meta property="og:title" content="Title %[1]s">
<meta property="og:type" content="article">
<meta property="og:description" content="golang scraping golang metadata">
</head></html>`, strings.TrimPrefix(r.URL.Path, "/"))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func optionsFor(u string) ogscraper.Options { return ogscraper.Options{URL: u} }

func TestRecord(t *testing.T) {
	ts := newServer(t)
	r := New(ogscraper.New(), 2)

	rec := r.Record(context.Background(), ogscraper.Options{URL: ts.URL + "/a"})
	if rec.Error != "" {
		t.Fatalf("unexpected error %q", rec.Error)
	}
	if rec.SourceURL != ts.URL+"/a" || rec.Result.Title() != "Title a" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Class.Label != "article" {
		t.Errorf("class = %q", rec.Class.Label)
	}
	if len(rec.Topics) == 0 || rec.Topics[0] != "golang" {
		t.Errorf("topics = %v", rec.Topics)
	}
}

func TestRecordError(t *testing.T) {
	ts := newServer(t)
	r := New(ogscraper.New(), 1)

	rec := r.Record(context.Background(), ogscraper.Options{URL: ts.URL + "/missing"})
	if rec.Result != nil || rec.ErrorKind != "server_error" || rec.Error == "" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Topics == nil {
		t.Error("topics should encode as an empty list")
	}

	rec = r.Record(context.Background(), ogscraper.Options{URL: "http://blocked.example/x", Blacklist: []string{"http://blocked.example/"}})
	if rec.ErrorKind != "blacklisted" {
		t.Errorf("kind = %q", rec.ErrorKind)
	}
}

func TestRunKeepsOrder(t *testing.T) {
	ts := newServer(t)
	var urls []string
	for i := range 12 {
		urls = append(urls, fmt.Sprintf("%s/p%d", ts.URL, i))
	}
	recs, err := New(ogscraper.New(), 4).Run(context.Background(), urls, optionsFor)
	if err != nil {
		t.Fatal(err)
	}
	var got, want []string
	for i, rec := range recs {
		got = append(got, rec.Result.Title())
		want = append(want, fmt.Sprintf("Title p%d", i))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestStream(t *testing.T) {
	ts := newServer(t)
	urls := []string{ts.URL + "/a", ts.URL + "/missing", ts.URL + "/b"}

	var n atomic.Int32
	var failed int
	err := New(ogscraper.New(), 2).Stream(context.Background(), urls, optionsFor, func(rec models.ScrapeRecord) error {
		n.Add(1)
		if rec.Error != "" {
			failed++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n.Load() != 3 || failed != 1 {
		t.Errorf("emitted %d records, %d failed", n.Load(), failed)
	}
}

func TestStreamEmitError(t *testing.T) {
	ts := newServer(t)
	urls := make([]string, 20)
	for i := range urls {
		urls[i] = ts.URL + "/x"
	}
	boom := errors.New("write failed")
	err := New(ogscraper.New(), 1).Stream(context.Background(), urls, optionsFor, func(models.ScrapeRecord) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(ogscraper.New(), 2).Run(ctx, []string{"http://example.invalid/"}, optionsFor)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}
