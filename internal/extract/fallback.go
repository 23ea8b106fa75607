package extract

import (
	"slices"
	"strings"

	"og-scraper/internal/models"
)

// supportedImageExts are the <img> src extensions the image scan accepts.
var supportedImageExts = []string{"jpg", "jpeg", "png"}

// ApplyFallbacks fills ogTitle, ogDescription and ogImage from the document
// body when the meta tags left them empty. Nothing is filled when
// opts.OnlyOpenGraph is set. An empty image list is always dropped.
func ApplyFallbacks(doc Document, res *models.Result, opts Options) {
	if !opts.OnlyOpenGraph {
		if res.Title() == "" {
			if title := doc.Text("head > title"); title != "" {
				res.Set("ogTitle", title)
			}
		}
		if res.Description() == "" {
			if desc, ok := doc.Attr(`head > meta[name="description"]`, "content"); ok && desc != "" {
				res.Set("ogDescription", desc)
			}
		}
		if len(res.OGImage) == 0 && opts.ImageFallback {
			res.OGImage = imagesFromTags(doc.Elements("img"))
		}
	}
	if len(res.OGImage) == 0 {
		res.OGImage = nil
	}
}

// imagesFromTags keeps every <img> whose src ends in a supported extension,
// in document order.
func imagesFromTags(elems []Element) []models.Image {
	var out []models.Image
	for _, el := range elems {
		src, _ := el.Attr("src")
		ext := src[strings.LastIndex(src, ".")+1:]
		if !slices.Contains(supportedImageExts, ext) {
			continue
		}
		w, _ := el.Attr("width")
		h, _ := el.Attr("height")
		out = append(out, models.Image{
			URL:    src,
			Width:  parseLeadingInt(w),
			Height: parseLeadingInt(h),
			Type:   "image/" + ext,
		})
	}
	return out
}

// parseLeadingInt reads an optionally signed run of leading digits, so
// "300px" is 300. Input without digits yields nil.
func parseLeadingInt(s string) *int {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	n := 0
	for _, c := range s[:end] {
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return &n
}
