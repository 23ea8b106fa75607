package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"og-scraper/internal/models"
)

func TestDecodeURLs(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		in      string
		want    []string
		wantErr bool
	}{
		{"csv", "csv", "id,url\n1,http://a\n2, http://b \n3,\n", []string{"http://a", "http://b"}, false},
		{"csv without url column", "csv", "id,link\n1,http://a\n", nil, true},
		{"ndjson", "ndjson", "{\"url\":\"http://a\"}\n\nhttp://b\n{\"other\":1}\n", []string{"http://a", "http://b"}, false},
		{"bad json line", "jsonl", "{\"url\":\n", nil, true},
		{"plain text", "txt", "# comment\nhttp://a\nhttp://b\n", []string{"http://a", "http://b"}, false},
		{"sniffed csv", "", "url\nhttp://a\n", []string{"http://a"}, false},
		{"sniffed lines", "", "http://a\nhttp://b\n", []string{"http://a", "http://b"}, false},
		{"empty", "txt", "\n\n", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeURLs(strings.NewReader(tt.in), tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("urls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadURLsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urls.csv")
	if err := os.WriteFile(path, []byte("url\nexample.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadURLs(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"example.com"}, got); diff != "" {
		t.Errorf("urls mismatch (-want +got):\n%s", diff)
	}
	if _, err := ReadURLs(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func sampleRecord() models.ScrapeRecord {
	res := models.NewResult()
	res.Set("ogTitle", "Hello <world>")
	res.Set("twitterCard", "summary")
	res.OGImage = []models.Image{{URL: "http://x/a.png"}}
	res.RequestURL = "http://x/"
	return models.ScrapeRecord{
		SourceURL: "x",
		FetchMs:   12,
		Result:    res,
		Class:     models.Classification{Label: "website"},
		Topics:    []string{"hello", "world"},
	}
}

func TestNDJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter("ndjson", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(sampleRecord()); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(models.ScrapeRecord{SourceURL: "y", Error: "page not found", ErrorKind: "not_found"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"ogTitle":"Hello <world>"`) {
		t.Errorf("html should not be escaped: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"result":null`) || !strings.Contains(lines[1], `"errorKind":"not_found"`) {
		t.Errorf("error record: %s", lines[1])
	}
}

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter("xlsx", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(sampleRecord()); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(models.ScrapeRecord{SourceURL: "y", ErrorKind: "timeout", Error: "time out"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("want header + 2 rows, got %d", len(rows))
	}
	if diff := cmp.Diff(xlsxColumns, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	want := []string{"x", "http://x/", "12", "website", "hello, world", "Hello <world>", "", "", "", "", "http://x/a.png", "summary"}
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
	if got := rows[2][len(rows[2])-1]; got != "time out" {
		t.Errorf("error cell = %q", got)
	}
}

func TestNewWriterUnknownFormat(t *testing.T) {
	if _, err := NewWriter("parquet", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, []map[string]int{{"a": 1}, {"b": 2}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\"a\":1}\n{\"b\":2}\n" {
		t.Errorf("output = %q", buf.String())
	}
}
