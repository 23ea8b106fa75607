package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"og-scraper/internal/extract"
)

const sampleHTML = `<!doctype html><html lang="en"><head>
<title>Test Page</title>
<meta name="description" content="A short description">
<meta property="og:type" content="article">
<meta property="og:image" content="http://x/a.png">
<meta property="og:image:width" content="640">
<meta HTTP-EQUIV="content-language" content="en">
</head><body>
<h1>Hello</h1>
<img src="/b.jpg" width="10px">
<meta name="description" content="body description">
</body></html>`

func TestParseDocument(t *testing.T) {
	p := New()
	doc, err := p.Parse(strings.NewReader(sampleHTML), "text/html; charset=utf-8", "")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if doc.Charset() != "utf-8" {
		t.Errorf("charset = %q", doc.Charset())
	}
	if got := doc.Text("head > title"); got != "Test Page" {
		t.Fatalf("want title Test Page, got %q", got)
	}
	if got, ok := doc.Attr(`head > meta[name="description"]`, "content"); !ok || got != "A short description" {
		t.Errorf("description = %q, %v", got, ok)
	}
	if len(doc.Elements("meta")) != 6 {
		t.Errorf("want 6 meta elements, got %d", len(doc.Elements("meta")))
	}
	if len(doc.Elements("img")) != 1 {
		t.Errorf("want 1 img element, got %d", len(doc.Elements("img")))
	}
	if _, ok := doc.Attr("head > link", "href"); ok {
		t.Error("missing element reported an attribute")
	}
	if doc.Text("[[bad selector") != "" {
		t.Error("invalid selector should match nothing")
	}
}

func TestElementAttr(t *testing.T) {
	doc, err := ParseString(`<meta property="og:title" content="" http-equiv="x">`)
	if err != nil {
		t.Fatal(err)
	}
	el := doc.Elements("meta")[0]
	if v, ok := el.Attr("content"); !ok || v != "" {
		t.Errorf("empty attribute should be present: %q %v", v, ok)
	}
	if v, ok := el.Attr("HTTP-EQUIV"); !ok || v != "x" {
		t.Errorf("case-insensitive lookup failed: %q %v", v, ok)
	}
	if _, ok := el.Attr("value"); ok {
		t.Error("absent attribute reported present")
	}
}

func TestExtractFromParsedDocument(t *testing.T) {
	doc, err := ParseString(sampleHTML)
	if err != nil {
		t.Fatal(err)
	}
	res := extract.Extract(doc, extract.DefaultOptions())
	if res.Title() != "Test Page" || res.Description() != "A short description" {
		t.Errorf("fallbacks: title %q description %q", res.Title(), res.Description())
	}
	if res.Type() != "article" {
		t.Errorf("ogType = %q", res.Type())
	}
	if len(res.OGImage) != 1 || res.OGImage[0].URL != "http://x/a.png" || *res.OGImage[0].Width != 640 {
		t.Errorf("ogImage = %+v", res.OGImage)
	}
}

func TestDecode(t *testing.T) {
	latin1 := []byte("<html><head><meta charset=\"iso-8859-1\"><title>caf\xe9</title></head></html>")
	tests := []struct {
		name        string
		data        []byte
		contentType string
		label       string
		wantCharset string
		wantText    string
	}{
		{"header charset", []byte("<p>ok</p>"), "text/html; charset=utf-8", "", "utf-8", "<p>ok</p>"},
		{"meta charset", latin1, "text/html", "", "windows-1252", "café"},
		{"explicit label", []byte("caf\xe9"), "", "latin1", "windows-1252", "café"},
		{"undeclared utf-8", []byte("<p>naïve</p>"), "", "", "utf-8", "<p>naïve</p>"},
	}
	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, cs, err := p.Decode(tt.data, tt.contentType, tt.label)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if cs != tt.wantCharset {
				t.Errorf("charset = %q, want %q", cs, tt.wantCharset)
			}
			if !strings.Contains(string(out), tt.wantText) {
				t.Errorf("decoded %q does not contain %q", out, tt.wantText)
			}
		})
	}
}

func TestDecodeUnknownLabel(t *testing.T) {
	_, _, err := New().Decode([]byte("x"), "", "no-such-charset")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want *DecodeError, got %v", err)
	}
	if de.Charset != "no-such-charset" {
		t.Errorf("charset = %q", de.Charset)
	}
}

func TestDecodePeekSize(t *testing.T) {
	body := []byte(strings.Repeat(" ", 64) + `<meta charset="iso-8859-2"><p>` + "\xb1" + `</p>`)
	p := &Parser{PeekSize: 16}
	out, cs, err := p.Decode(body, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("windows-1252", cs); diff != "" {
		t.Errorf("short peek should miss the declaration (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(out), "±") {
		t.Errorf("decoded %q", out)
	}

	p.PeekSize = 0
	out, cs, _ = p.Decode(body, "", "")
	if cs != "iso-8859-2" || !strings.Contains(string(out), "ą") {
		t.Errorf("charset = %q, decoded %q", cs, out)
	}
}

func TestDecodeLargePeekWindow(t *testing.T) {
	body := []byte("<html><head>" + strings.Repeat("<!-- padding -->", 128) +
		`<meta charset="iso-8859-2"><title>` + "\xb1" + `</title></head></html>`)

	_, cs, err := New().Decode(body, "text/html", "")
	if err != nil {
		t.Fatal(err)
	}
	if cs != "windows-1252" {
		t.Errorf("default window: charset = %q, want windows-1252", cs)
	}

	p := &Parser{PeekSize: 4096}
	out, cs, err := p.Decode(body, "text/html", "")
	if err != nil {
		t.Fatal(err)
	}
	if cs != "iso-8859-2" || !strings.Contains(string(out), "<title>ą</title>") {
		t.Errorf("charset = %q, decoded %q", cs, out)
	}
}

func TestDecodeUndeclaredUTF8AfterLongHead(t *testing.T) {
	body := []byte("<html><head>" + strings.Repeat("<!-- padding -->", 128) +
		`<meta property="og:title" content="Café — 東京"></head></html>`)

	out, cs, err := New().Decode(body, "text/html", "")
	if err != nil {
		t.Fatal(err)
	}
	if cs != "utf-8" {
		t.Errorf("charset = %q, want utf-8", cs)
	}
	if !strings.Contains(string(out), "Café — 東京") {
		t.Errorf("decoded %q", out)
	}

	doc, err := New().Parse(bytes.NewReader(body), "text/html", "")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := doc.Attr(`meta[property="og:title"]`, "content"); got != "Café — 東京" {
		t.Errorf("og:title = %q", got)
	}
}
