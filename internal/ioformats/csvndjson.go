package ioformats

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"og-scraper/internal/models"
)

// ReadURLs reads URLs from a CSV (expects header with "url"), NDJSON or
// plain-text file. If ext cannot be determined, tries CSV first then NDJSON.
func ReadURLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeURLs(bytes.NewReader(data), strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// DecodeURLs reads a URL list in the given format ("csv", "ndjson",
// "jsonl", "txt"). Any other format tries CSV, then line-oriented input.
func DecodeURLs(r io.Reader, format string) ([]string, error) {
	switch format {
	case "csv":
		return readCSV(r)
	case "ndjson", "jsonl", "txt":
		return readNDJSON(r)
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if urls, err := readCSV(bytes.NewReader(data)); err == nil && len(urls) > 0 {
			return urls, nil
		}
		return readNDJSON(bytes.NewReader(data))
	}
}

func readCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), "url") {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, errors.New("csv must contain a 'url' header column")
	}
	var out []string
	for _, row := range rows[1:] {
		if col < len(row) {
			if u := strings.TrimSpace(row[col]); u != "" {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func readNDJSON(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// allow raw string or {"url": "..."}
		if strings.HasPrefix(line, "{") {
			var obj struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				return nil, fmt.Errorf("line %q: %w", line, err)
			}
			if obj.URL != "" {
				out = append(out, obj.URL)
			}
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no urls found")
	}
	return out, nil
}

// RecordWriter streams scrape records to an output format.
type RecordWriter interface {
	Write(rec models.ScrapeRecord) error
	Close() error
}

// NewWriter returns a writer for "ndjson" or "xlsx".
func NewWriter(format string, w io.Writer) (RecordWriter, error) {
	switch strings.ToLower(format) {
	case "", "ndjson", "jsonl":
		return NewNDJSONWriter(w), nil
	case "xlsx":
		return NewXLSXWriter(w)
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

type NDJSONWriter struct {
	enc *json.Encoder
}

func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{enc: enc}
}

func (w *NDJSONWriter) Write(rec models.ScrapeRecord) error { return w.enc.Encode(rec) }

func (w *NDJSONWriter) Close() error { return nil }

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
