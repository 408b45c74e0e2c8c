package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseDocument wraps goquery's HTML parser, the replacement for
// selectolax/BeautifulSoup-style tree scraping in the Go ecosystem.
func parseDocument(raw string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(raw))
}

// selText returns the trimmed text of the first element in sel matched by
// selector, or "" if nothing matches.
func selText(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// selAttr returns the named attribute of the first element matched by
// selector within sel.
func selAttr(sel *goquery.Selection, selector, attr string) (string, bool) {
	return sel.Find(selector).First().Attr(attr)
}
