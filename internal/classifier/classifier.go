package classifier

import (
	"sort"
	"strings"
	"unicode"

	"og-scraper/internal/models"
)

type Classifier struct{}

func New() *Classifier { return &Classifier{} }

// simple stopword list (extend as needed)
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "a": {}, "for": {}, "is": {}, "on": {}, "with": {}, "as": {},
	"by": {}, "at": {}, "from": {}, "that": {}, "this": {}, "it": {}, "an": {}, "be": {}, "or": {}, "are": {}, "was": {},
	"will": {}, "has": {}, "have": {}, "had": {}, "but": {}, "not": {}, "your": {}, "you": {}, "we": {}, "our": {},
}

// rule maps an og:type namespace and a set of namespace-specific fields to
// a label. Rules are checked in order; the first one with evidence wins.
type rule struct {
	label  string
	types  []string
	fields []string
	media  func(*models.Result) bool
}

var rules = []rule{
	{
		label:  "product",
		types:  []string{"product", "og:product"},
		fields: []string{"ogProductPriceAmount", "ogPriceAmount", "ogProductAvailability", "ogAvailability", "ogProductRetailerItemId"},
	},
	{
		label:  "music",
		types:  []string{"music."},
		fields: []string{"musicDuration", "musicAlbum", "musicMusician", "musicReleaseDate", "musicCreator"},
		media:  func(r *models.Result) bool { return len(r.MusicSong) > 0 },
	},
	{
		label:  "video",
		types:  []string{"video."},
		fields: []string{"videoDuration", "videoDirector", "videoActor", "videoReleaseDate", "videoSeries"},
		media:  func(r *models.Result) bool { return len(r.OGVideo) > 0 || len(r.TwitterPlayer) > 0 },
	},
	{
		label:  "article",
		types:  []string{"article"},
		fields: []string{"articlePublishedTime", "articleModifiedTime", "articleAuthor", "articleSection", "articleTag"},
	},
	{
		label:  "book",
		types:  []string{"book"},
		fields: []string{"bookAuthor", "bookIsbn", "bookReleaseDate"},
	},
	{
		label:  "profile",
		types:  []string{"profile"},
		fields: []string{"profileUsername", "profileFirstName", "profileLastName"},
	},
}

// Classify labels a result by its og:type and the namespaced fields it
// carries. Reason lists the evidence behind the label.
func (c *Classifier) Classify(res *models.Result) models.Classification {
	if res == nil {
		return models.Classification{Label: "other"}
	}
	ogType := strings.ToLower(strings.TrimSpace(res.Type()))
	for _, r := range rules {
		reason := map[string]string{}
		for _, t := range r.types {
			if ogType == t || (strings.HasSuffix(t, ".") && strings.HasPrefix(ogType, t)) {
				reason["og:type"] = "og:type is " + ogType
				break
			}
		}
		for _, f := range r.fields {
			if res.Has(f) {
				reason[f] = "field present"
			}
		}
		if r.media != nil && r.media(res) {
			reason["media"] = r.label + " media present"
		}
		if len(reason) > 0 {
			return models.Classification{Label: r.label, Reason: reason}
		}
	}
	if ogType == "website" {
		return models.Classification{Label: "website", Reason: map[string]string{"og:type": "og:type is website"}}
	}
	if strings.Contains(strings.ToLower(res.Title()), "blog") {
		return models.Classification{Label: "blog", Reason: map[string]string{"blog": "blog marker in title"}}
	}
	return models.Classification{Label: "other"}
}

// Text joins the free-text fields of a result for topic extraction.
func Text(res *models.Result) string {
	if res == nil {
		return ""
	}
	parts := []string{res.Title(), res.Description()}
	for _, name := range []string{"twitterTitle", "twitterDescription", "keywords", "description"} {
		if v, ok := res.Get(name); ok {
			parts = append(parts, v)
		}
	}
	for _, name := range []string{"articleTag", "videoTag", "bookTag"} {
		if l, ok := res.List(name); ok {
			parts = append(parts, l...)
		}
	}
	return strings.Join(parts, " ")
}

// TopTopics returns top N keywords by normalized frequency, ignoring stopwords and short tokens.
func (c *Classifier) TopTopics(text string, n int) []string {
	freq := map[string]int{}
	token := func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) }
	for _, w := range strings.FieldsFunc(strings.ToLower(text), token) {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		freq[w]++
	}

	type kv struct {
		K string
		V int
	}
	list := make([]kv, 0, len(freq))
	for k, v := range freq {
		list = append(list, kv{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].V == list[j].V {
			return list[i].K < list[j].K
		}
		return list[i].V > list[j].V
	})
	n = min(max(n, 0), len(list))
	out := make([]string, 0, n)
	for _, e := range list[:n] {
		out = append(out, e.K)
	}
	return out
}
