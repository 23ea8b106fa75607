package models

import (
	"bytes"
	"encoding/json"
	"maps"
)

type Image struct {
	URL    string `json:"url,omitempty"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
	Type   string `json:"type,omitempty"`
}

type Video struct {
	URL    string `json:"url,omitempty"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
	Type   string `json:"type,omitempty"`
}

type TwitterImage struct {
	URL    string `json:"url,omitempty"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`
}

type TwitterPlayer struct {
	URL    string `json:"url,omitempty"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
	Stream string `json:"stream,omitempty"`
}

// MusicSong always carries track and disc; a value that did not parse is
// nil and encodes as null.
type MusicSong struct {
	URL   string `json:"url,omitempty"`
	Track *int   `json:"track"`
	Disc  *int   `json:"disc"`
}

// Result is the structured metadata of one document. Fields and Lists hold
// passthrough values keyed by output name; media groups are typed and are
// nil when the document has none.
type Result struct {
	Fields map[string]string
	Lists  map[string][]string

	OGImage       []Image
	OGVideo       []Video
	TwitterImage  []TwitterImage
	TwitterPlayer []TwitterPlayer
	MusicSong     []MusicSong

	Charset    string
	RequestURL string
}

func NewResult() *Result {
	return &Result{
		Fields: map[string]string{},
		Lists:  map[string][]string{},
	}
}

// Get returns a single-valued field.
func (r *Result) Get(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// List returns a multi-valued passthrough field.
func (r *Result) List(name string) ([]string, bool) {
	v, ok := r.Lists[name]
	return v, ok
}

func (r *Result) Set(name, value string) {
	if r.Fields == nil {
		r.Fields = map[string]string{}
	}
	r.Fields[name] = value
}

func (r *Result) Title() string       { return r.Fields["ogTitle"] }
func (r *Result) Description() string { return r.Fields["ogDescription"] }
func (r *Result) Type() string        { return r.Fields["ogType"] }
func (r *Result) URL() string         { return r.Fields["ogUrl"] }
func (r *Result) SiteName() string    { return r.Fields["ogSiteName"] }

// Has reports whether name is present in any form.
func (r *Result) Has(name string) bool {
	if _, ok := r.Fields[name]; ok {
		return true
	}
	if _, ok := r.Lists[name]; ok {
		return true
	}
	switch name {
	case "ogImage":
		return len(r.OGImage) > 0
	case "ogVideo":
		return len(r.OGVideo) > 0
	case "twitterImage":
		return len(r.TwitterImage) > 0
	case "twitterPlayer":
		return len(r.TwitterPlayer) > 0
	case "musicSong":
		return len(r.MusicSong) > 0
	}
	return false
}

// Len counts the top-level keys the result would encode.
func (r *Result) Len() int {
	return len(r.flatten())
}

func (r *Result) flatten() map[string]any {
	out := make(map[string]any, len(r.Fields)+len(r.Lists)+7)
	for k, v := range r.Fields {
		out[k] = v
	}
	for k, v := range r.Lists {
		out[k] = v
	}
	if len(r.OGImage) > 0 {
		out["ogImage"] = r.OGImage
	}
	if len(r.OGVideo) > 0 {
		out["ogVideo"] = r.OGVideo
	}
	if len(r.TwitterImage) > 0 {
		out["twitterImage"] = r.TwitterImage
	}
	if len(r.TwitterPlayer) > 0 {
		out["twitterPlayer"] = r.TwitterPlayer
	}
	if len(r.MusicSong) > 0 {
		out["musicSong"] = r.MusicSong
	}
	if r.Charset != "" {
		out["charset"] = r.Charset
	}
	if r.RequestURL != "" {
		out["requestUrl"] = r.RequestURL
	}
	return out
}

// MarshalJSON encodes the result as one flat object keyed by field name.
// HTML characters are left unescaped.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.flatten()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Clone returns a deep copy of r: no maps, slices or numeric pointers are
// shared.
func (r *Result) Clone() *Result {
	c := &Result{
		Fields:        maps.Clone(r.Fields),
		Lists:         make(map[string][]string, len(r.Lists)),
		OGImage:       append([]Image(nil), r.OGImage...),
		OGVideo:       append([]Video(nil), r.OGVideo...),
		TwitterImage:  append([]TwitterImage(nil), r.TwitterImage...),
		TwitterPlayer: append([]TwitterPlayer(nil), r.TwitterPlayer...),
		MusicSong:     append([]MusicSong(nil), r.MusicSong...),
		Charset:       r.Charset,
		RequestURL:    r.RequestURL,
	}
	for k, v := range r.Lists {
		c.Lists[k] = append([]string(nil), v...)
	}
	for i := range c.OGImage {
		c.OGImage[i].Width, c.OGImage[i].Height = cloneInt(c.OGImage[i].Width), cloneInt(c.OGImage[i].Height)
	}
	for i := range c.OGVideo {
		c.OGVideo[i].Width, c.OGVideo[i].Height = cloneInt(c.OGVideo[i].Width), cloneInt(c.OGVideo[i].Height)
	}
	for i := range c.TwitterImage {
		c.TwitterImage[i].Width, c.TwitterImage[i].Height = cloneInt(c.TwitterImage[i].Width), cloneInt(c.TwitterImage[i].Height)
	}
	for i := range c.TwitterPlayer {
		c.TwitterPlayer[i].Width, c.TwitterPlayer[i].Height = cloneInt(c.TwitterPlayer[i].Width), cloneInt(c.TwitterPlayer[i].Height)
	}
	for i := range c.MusicSong {
		c.MusicSong[i].Track, c.MusicSong[i].Disc = cloneInt(c.MusicSong[i].Track), cloneInt(c.MusicSong[i].Disc)
	}
	return c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

type Classification struct {
	Label  string            `json:"label"`
	Reason map[string]string `json:"reason,omitempty"`
}

// ScrapeRecord is one line of CLI or server output.
type ScrapeRecord struct {
	SourceURL string         `json:"sourceUrl,omitempty"`
	FetchMs   int64          `json:"fetchMs"`
	Result    *Result        `json:"result"`
	Class     Classification `json:"class"`
	Topics    []string       `json:"topics"`
	Error     string         `json:"error,omitempty"`
	ErrorKind string         `json:"errorKind,omitempty"`
}
