package extract

type fakeElement map[string]string

func (e fakeElement) Attr(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// fakeDoc answers the selectors extraction uses.
type fakeDoc struct {
	tags  map[string][]Element
	title string
	desc  *string
}

func (d *fakeDoc) Elements(tag string) []Element { return d.tags[tag] }

func (d *fakeDoc) Text(selector string) string {
	if selector == "head > title" {
		return d.title
	}
	return ""
}

func (d *fakeDoc) Attr(selector, name string) (string, bool) {
	if selector == `head > meta[name="description"]` && name == "content" && d.desc != nil {
		return *d.desc, true
	}
	return "", false
}

func meta(property, content string) Element {
	return fakeElement{"property": property, "content": content}
}

func metas(pairs ...string) []Element {
	out := make([]Element, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, meta(pairs[i], pairs[i+1]))
	}
	return out
}

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }
