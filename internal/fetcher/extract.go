package fetcher

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// textElements are the elements whose text makes up the article body.
const textElements = "p, div, span"

// decode converts body to UTF-8 using the declared charset, then a BOM or
// <meta> declaration, then content sniffing. It returns the charset name used.
func decode(body []byte, contentType string) (string, string, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain && name == "windows-1252" && utf8.Valid(body) {
		return string(body), "utf-8", nil
	}
	if name == "utf-8" {
		return string(body), name, nil
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(enc.NewDecoder().Reader(bytes.NewReader(body))); err != nil {
		return "", name, fmt.Errorf("decoding %s body: %w", name, err)
	}
	return buf.String(), name, nil
}

// extractText concatenates the text of every p, div and span element in
// document order. Each element contributes the trimmed text of all its
// descendant text nodes glued together; element texts are joined by single
// spaces. Nested elements are visited on their own too, so their text is
// counted once per enclosing match.
func extractText(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	doc.Find("script, style, template").Remove()

	parts := make([]string, 0, 64)
	doc.Find(textElements).Each(func(_ int, s *goquery.Selection) {
		var sb strings.Builder
		for _, n := range s.Nodes {
			strippedText(n, &sb)
		}
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
		}
	})
	return strings.Join(parts, " "), nil
}

func strippedText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		strippedText(c, sb)
	}
}
