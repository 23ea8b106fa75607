package extract

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"og-scraper/internal/fields"
	"og-scraper/internal/models"
)

// Multi-valued fields with these prefixes are folded into media groups and
// never copied through as plain lists.
var groupedPrefixes = []string{"ogImage", "ogVideo", "twitter", "musicSong"}

// Group builds the structured result from a raw record: passthrough fields
// are copied, and the five media families are zipped, coerced and sorted.
// Groups with no rows are left nil.
func Group(raw Raw, schema *fields.Schema) *models.Result {
	res := models.NewResult()
	for _, name := range schema.Names() {
		v, ok := raw[name]
		if !ok || len(v) == 0 {
			continue
		}
		if !schema.Multiple(name) {
			res.Fields[name] = v[0]
			continue
		}
		if fields.HasPrefix(name, groupedPrefixes...) {
			continue
		}
		res.Lists[name] = slices.Clone(v)
	}

	res.OGImage = images(raw)
	res.OGVideo = videos(raw)
	res.TwitterImage = twitterImages(raw)
	res.TwitterPlayer = twitterPlayers(raw)
	res.MusicSong = musicSongs(raw)
	return res
}

// zip combines columns by index over the longest column. A nil column reads
// as empty, so a family with any one column present still yields rows.
func zip(cols ...[]string) [][]string {
	n := 0
	for _, c := range cols {
		n = max(n, len(c))
	}
	if n == 0 {
		return nil
	}
	rows := make([][]string, n)
	for i := range n {
		row := make([]string, len(cols))
		for j, c := range cols {
			if i < len(c) {
				row[j] = c[i]
			}
		}
		rows[i] = row
	}
	return rows
}

// parseNumber coerces a dimension, track or disc value. Blank or
// non-numeric input yields nil; values beyond int range are clamped.
func parseNumber(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	var n int
	switch {
	case f >= math.MaxInt:
		n = math.MaxInt
	case f <= math.MinInt:
		n = math.MinInt
	default:
		n = int(f)
	}
	return &n
}

func images(raw Raw) []models.Image {
	rows := zip(raw["ogImage"], raw["ogImageWidth"], raw["ogImageHeight"], raw["ogImageType"])
	if rows == nil {
		return nil
	}
	out := make([]models.Image, len(rows))
	for i, r := range rows {
		out[i] = models.Image{URL: r[0], Width: parseNumber(r[1]), Height: parseNumber(r[2]), Type: r[3]}
	}
	sortMedia(out, func(m models.Image) mediaKey { return mediaKey{m.URL, m.Width, m.Height} })
	return out
}

func videos(raw Raw) []models.Video {
	rows := zip(raw["ogVideo"], raw["ogVideoWidth"], raw["ogVideoHeight"], raw["ogVideoType"])
	if rows == nil {
		return nil
	}
	out := make([]models.Video, len(rows))
	for i, r := range rows {
		out[i] = models.Video{URL: r[0], Width: parseNumber(r[1]), Height: parseNumber(r[2]), Type: r[3]}
	}
	sortMedia(out, func(m models.Video) mediaKey { return mediaKey{m.URL, m.Width, m.Height} })
	return out
}

func twitterImages(raw Raw) []models.TwitterImage {
	urls, ok := raw["twitterImage"]
	if !ok {
		urls = raw["twitterImageSrc"]
	}
	rows := zip(urls, raw["twitterImageWidth"], raw["twitterImageHeight"], raw["twitterImageAlt"])
	if rows == nil {
		return nil
	}
	out := make([]models.TwitterImage, len(rows))
	for i, r := range rows {
		out[i] = models.TwitterImage{URL: r[0], Width: parseNumber(r[1]), Height: parseNumber(r[2]), Alt: r[3]}
	}
	sortMedia(out, func(m models.TwitterImage) mediaKey { return mediaKey{m.URL, m.Width, m.Height} })
	return out
}

func twitterPlayers(raw Raw) []models.TwitterPlayer {
	rows := zip(raw["twitterPlayer"], raw["twitterPlayerWidth"], raw["twitterPlayerHeight"], raw["twitterPlayerStream"])
	if rows == nil {
		return nil
	}
	out := make([]models.TwitterPlayer, len(rows))
	for i, r := range rows {
		out[i] = models.TwitterPlayer{URL: r[0], Width: parseNumber(r[1]), Height: parseNumber(r[2]), Stream: r[3]}
	}
	sortMedia(out, func(m models.TwitterPlayer) mediaKey { return mediaKey{m.URL, m.Width, m.Height} })
	return out
}

func musicSongs(raw Raw) []models.MusicSong {
	rows := zip(raw["musicSong"], raw["musicSongTrack"], raw["musicSongDisc"])
	if rows == nil {
		return nil
	}
	out := make([]models.MusicSong, len(rows))
	for i, r := range rows {
		out[i] = models.MusicSong{URL: r[0], Track: parseNumber(r[1]), Disc: parseNumber(r[2])}
	}
	slices.SortStableFunc(out, compareSongs)
	return out
}

type mediaKey struct {
	url           string
	width, height *int
}

// size is the larger dimension; it is unknown unless both are set.
func (k mediaKey) size() (int, bool) {
	if k.width == nil || k.height == nil {
		return 0, false
	}
	return max(*k.width, *k.height), true
}

var extPattern = regexp.MustCompile(`\.(\w{2,5})$`)

func extension(u string) string {
	m := extPattern.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// compareMedia puts gifs first, then larger media first. Items it cannot
// rank compare equal and keep their document order.
func compareMedia(a, b mediaKey) int {
	if a.url == "" || b.url == "" {
		return 0
	}
	aGif, bGif := extension(a.url) == "gif", extension(b.url) == "gif"
	switch {
	case aGif && !bGif:
		return -1
	case !aGif && bGif:
		return 1
	}
	as, aok := a.size()
	bs, bok := b.size()
	if !aok || !bok {
		return 0
	}
	return cmp.Compare(bs, as)
}

func sortMedia[T any](items []T, key func(T) mediaKey) {
	slices.SortStableFunc(items, func(a, b T) int {
		return compareMedia(key(a), key(b))
	})
}

// compareSongs orders by disc then track. Songs without a usable track
// compare equal; an unparsed disc ranks neither before nor after.
func compareSongs(a, b models.MusicSong) int {
	if !positive(a.Track) || !positive(b.Track) {
		return 0
	}
	if a.Disc != nil && b.Disc != nil {
		switch {
		case *a.Disc > *b.Disc:
			return 1
		case *a.Disc < *b.Disc:
			return -1
		}
	}
	return *a.Track - *b.Track
}

func positive(n *int) bool {
	return n != nil && *n != 0
}
