// Package htmlutil extracts readable message text from HTML documents.
package htmlutil

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/happyhackingspace/spamlens/internal/textutil"
)

// LoadHTML parses an HTML document.
func LoadHTML(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// LoadHTMLString parses HTML string into a goquery Document.
func LoadHTMLString(htmlStr string) (*goquery.Document, error) {
	return LoadHTML(strings.NewReader(htmlStr))
}

// VisibleText returns the human-visible text of a document: script, style and
// head content are dropped, block elements are separated by spaces, image alt
// texts are kept and whitespace is collapsed.
func VisibleText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, head, template").Remove()
	doc.Find("br, p, div, li, tr, td, th, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	var alts []string
	doc.Find("img[alt]").Each(func(_ int, s *goquery.Selection) {
		if alt := strings.TrimSpace(s.AttrOr("alt", "")); alt != "" {
			alts = append(alts, alt)
		}
	})
	text := doc.Find("body").Text()
	if len(alts) > 0 {
		text += " " + strings.Join(alts, " ")
	}
	return strings.TrimSpace(textutil.NormalizeWhitespaces(text))
}

// TextFromHTML parses htmlStr and returns its visible text.
func TextFromHTML(htmlStr string) (string, error) {
	doc, err := LoadHTMLString(htmlStr)
	if err != nil {
		return "", err
	}
	return VisibleText(doc), nil
}
