package markdown

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, div, br, td, th, pre"

// PlainText returns the visible text of an HTML fragment with whitespace
// collapsed. Figure captions are dropped so they do not count as prose.
func PlainText(fragment []byte) string {
	if len(bytes.TrimSpace(fragment)) == 0 {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fragment))
	if err != nil {
		return ""
	}
	doc.Find("script, style, figcaption").Remove()
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// FirstImage returns the src of the first <img> in the fragment.
func FirstImage(fragment []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}
