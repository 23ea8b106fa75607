package fields

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultLookup(t *testing.T) {
	s := Default()
	tests := []struct {
		property string
		want     Field
		ok       bool
	}{
		{"og:title", Field{Property: "og:title", Name: "ogTitle"}, true},
		{"og:image", Field{Property: "og:image", Name: "ogImage", Multiple: true}, true},
		{"og:video:url", Field{Property: "og:video:url", Name: "ogVideo", Multiple: true}, true},
		{"article:section", Field{Property: "article:section", Name: "articlePublishedTime"}, true},
		{"twitter:image:src", Field{Property: "twitter:image:src", Name: "twitterImageSrc", Multiple: true}, true},
		{"og:nope", Field{}, false},
		{"OG:TITLE", Field{}, false},
	}
	for _, tt := range tests {
		got, ok := s.Lookup(tt.property)
		if ok != tt.ok {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.property, ok, tt.ok)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Lookup(%q) mismatch (-want +got):\n%s", tt.property, diff)
		}
	}
}

func TestCorrectedSection(t *testing.T) {
	f, ok := Corrected().Lookup("article:section")
	if !ok || f.Name != "articleSection" {
		t.Fatalf("got %+v, %v; want articleSection", f, ok)
	}
	if f, _ := Default().Lookup("article:section"); f.Name != "articlePublishedTime" {
		t.Fatalf("default table changed: %+v", f)
	}
}

func TestPropertiesOrderAndUniqueness(t *testing.T) {
	props := Default().Properties()
	if props[0] != "og:title" || props[1] != "og:type" {
		t.Fatalf("unexpected head of table: %v", props[:2])
	}
	seen := map[string]bool{}
	for _, p := range props {
		if seen[p] {
			t.Fatalf("property %q listed twice", p)
		}
		seen[p] = true
	}
	if len(props) < 90 {
		t.Fatalf("table too small: %d", len(props))
	}
}

func TestNamesDeduplicated(t *testing.T) {
	count := 0
	for _, n := range Default().Names() {
		if n == "ogVideo" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("ogVideo listed %d times", count)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Field
		kind    ErrorKind
	}{
		{"empty property", []Field{{Name: "x"}}, EmptyEntry},
		{"duplicate", []Field{{Property: "a", Name: "a"}, {Property: "a", Name: "b"}}, DuplicateProperty},
		{"multiplicity", []Field{{Property: "a", Name: "x"}, {Property: "b", Name: "x", Multiple: true}}, MultiplicityConflict},
		{"reserved", []Field{{Property: "a", Name: "charset"}}, ReservedName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("want ConfigError, got %v", err)
			}
			if cfgErr.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", cfgErr.Kind, tt.kind)
			}
		})
	}
}

func TestExtend(t *testing.T) {
	s, err := Default().Extend([]Field{{Property: "fb:app_id", Name: "fbAppId"}})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Known("fb:app_id") || !s.Known("og:title") {
		t.Fatal("extended schema lost entries")
	}
	if Default().Known("fb:app_id") {
		t.Fatal("Extend mutated the default schema")
	}
	if _, err := Default().Extend([]Field{{Property: "og:title", Name: "x"}}); err == nil {
		t.Fatal("expected duplicate property error")
	}
}
