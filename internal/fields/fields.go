// Package fields holds the table of recognised meta-tag properties and the
// output field each one folds into.
package fields

import (
	"fmt"
	"strings"
)

// Field maps a namespaced meta property to an output field name.
// Multiple fields accumulate every occurrence; single fields keep the first.
type Field struct {
	Property string `json:"property" yaml:"property"`
	Name     string `json:"name" yaml:"name"`
	Multiple bool   `json:"multiple" yaml:"multiple"`
}

// Schema is an immutable, validated field table.
type Schema struct {
	fields     []Field
	byProperty map[string]Field
	multiple   map[string]bool
}

// ErrorKind classifies a schema misconfiguration.
type ErrorKind string

const (
	EmptyEntry           ErrorKind = "empty_entry"
	DuplicateProperty    ErrorKind = "duplicate_property"
	MultiplicityConflict ErrorKind = "multiplicity_conflict"
	ReservedName         ErrorKind = "reserved_name"
)

// ConfigError reports a table that cannot be used for extraction.
type ConfigError struct {
	Kind  ErrorKind
	Field Field
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("field schema: %s: %s (property %q, name %q)", e.Kind, e.Msg, e.Field.Property, e.Field.Name)
}

// reserved output names are produced by the orchestrator, not by meta tags.
var reserved = map[string]bool{
	"charset":    true,
	"requestUrl": true,
}

// New validates entries and builds a Schema.
// Two properties may share an output name only with the same multiplicity.
func New(entries []Field) (*Schema, error) {
	s := &Schema{
		fields:     make([]Field, 0, len(entries)),
		byProperty: make(map[string]Field, len(entries)),
		multiple:   make(map[string]bool, len(entries)),
	}
	for _, f := range entries {
		if f.Property == "" || f.Name == "" {
			return nil, &ConfigError{Kind: EmptyEntry, Field: f, Msg: "property and name are required"}
		}
		if reserved[f.Name] {
			return nil, &ConfigError{Kind: ReservedName, Field: f, Msg: "output name is reserved"}
		}
		if _, dup := s.byProperty[f.Property]; dup {
			return nil, &ConfigError{Kind: DuplicateProperty, Field: f, Msg: "property listed twice"}
		}
		if m, seen := s.multiple[f.Name]; seen && m != f.Multiple {
			return nil, &ConfigError{Kind: MultiplicityConflict, Field: f, Msg: "output name shared with different multiplicity"}
		}
		s.fields = append(s.fields, f)
		s.byProperty[f.Property] = f
		s.multiple[f.Name] = f.Multiple
	}
	return s, nil
}

// Lookup returns the field for a property string.
func (s *Schema) Lookup(property string) (Field, bool) {
	f, ok := s.byProperty[property]
	return f, ok
}

// Known reports whether property is part of the table.
func (s *Schema) Known(property string) bool {
	_, ok := s.byProperty[property]
	return ok
}

// Multiple reports whether the output field accumulates a list.
func (s *Schema) Multiple(name string) bool {
	return s.multiple[name]
}

// Properties lists every property in table order.
func (s *Schema) Properties() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Property
	}
	return out
}

// Fields returns a copy of the table.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names lists the distinct output names in first-seen order.
func (s *Schema) Names() []string {
	seen := make(map[string]bool, len(s.fields))
	var out []string
	for _, f := range s.fields {
		if !seen[f.Name] {
			seen[f.Name] = true
			out = append(out, f.Name)
		}
	}
	return out
}

// Extend returns a new schema with extra appended after the current table.
func (s *Schema) Extend(extra []Field) (*Schema, error) {
	if len(extra) == 0 {
		return s, nil
	}
	entries := append(s.Fields(), extra...)
	return New(entries)
}

var (
	defaultSchema   = mustNew(table)
	correctedSchema = mustNew(corrected(table))
)

func mustNew(entries []Field) *Schema {
	s, err := New(entries)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the standard table. og:video:url folds into ogVideo and
// article:section folds into articlePublishedTime, as published sites expect.
func Default() *Schema { return defaultSchema }

// Corrected returns the standard table with article:section given its own
// articleSection field.
func Corrected() *Schema { return correctedSchema }

func corrected(in []Field) []Field {
	out := make([]Field, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Property == "article:section" {
			out[i].Name = "articleSection"
		}
	}
	return out
}

// HasPrefix reports whether name begins with any of prefixes.
func HasPrefix(name string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
