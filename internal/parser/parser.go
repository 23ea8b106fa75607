package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultPeekSize is how many leading bytes are sniffed for a charset
// declaration when the response headers carry none.
const DefaultPeekSize = 1024

// DecodeError reports a body that could not be converted to UTF-8.
type DecodeError struct {
	Charset string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s body: %v", e.Charset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Parser struct {
	// PeekSize bounds the charset sniff window. Zero means DefaultPeekSize.
	PeekSize int
}

func New() *Parser { return &Parser{PeekSize: DefaultPeekSize} }

// Parse reads r, decodes it to UTF-8 and builds a queryable document.
// A non-empty label forces that encoding instead of sniffing.
func (p *Parser) Parse(r io.Reader, contentType, label string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	text, name, err := p.Decode(data, contentType, label)
	if err != nil {
		return nil, err
	}
	doc, err := ParseString(string(text))
	if err != nil {
		return nil, err
	}
	doc.charset = name
	return doc, nil
}

// ParseString builds a document from markup that is already UTF-8.
func ParseString(markup string) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: gq}, nil
}

// Decode converts data to UTF-8 and reports the charset it used.
func (p *Parser) Decode(data []byte, contentType, label string) ([]byte, string, error) {
	enc, name, err := p.encoding(data, contentType, label)
	if err != nil {
		return nil, "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// already valid UTF-8 bodies are kept as they are
		if !utf8.Valid(data) {
			return nil, name, &DecodeError{Charset: name, Err: err}
		}
		out = data
	}
	return out, name, nil
}

func (p *Parser) encoding(data []byte, contentType, label string) (encoding.Encoding, string, error) {
	if label != "" {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, label, &DecodeError{Charset: label, Err: err}
		}
		name, err := htmlindex.Name(enc)
		if err != nil {
			name = label
		}
		return enc, name, nil
	}

	peek := data
	size := p.PeekSize
	if size <= 0 {
		size = DefaultPeekSize
	}
	if len(peek) > size {
		peek = peek[:size]
	}
	// BOM or Content-Type charset
	enc, name, certain := charset.DetermineEncoding(peek, contentType)
	if certain {
		return enc, name, nil
	}
	if enc, name, ok := prescan(peek); ok {
		return enc, name, nil
	}
	// undeclared bodies that are valid UTF-8 throughout are UTF-8, whatever
	// the first kilobyte looked like
	if utf8.Valid(data) {
		return encoding.Nop, "utf-8", nil
	}
	return enc, name, nil
}

var metaCharset = regexp.MustCompile(`(?i)<meta\b[^>]*?charset\s*=\s*["']?\s*([\w.:-]+)`)

// prescan finds the first usable <meta> charset declaration in peek. It
// covers the whole window, which DetermineEncoding caps at 1024 bytes.
func prescan(peek []byte) (encoding.Encoding, string, bool) {
	for _, m := range metaCharset.FindAllSubmatch(peek, -1) {
		enc, err := htmlindex.Get(string(m[1]))
		if err != nil {
			continue
		}
		name, err := htmlindex.Name(enc)
		if err != nil {
			name = strings.ToLower(string(m[1]))
		}
		// a meta utf-16 declaration is read as utf-8
		if strings.HasPrefix(name, "utf-16") {
			return encoding.Nop, "utf-8", true
		}
		return enc, name, true
	}
	return nil, "", false
}
