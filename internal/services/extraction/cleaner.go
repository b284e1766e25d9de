package extraction

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// minUsefulContent is the point below which the stripped document text is
// assumed to be boilerplate and the readability extractor is worth a try.
const minUsefulContent = 100

// CleanContent reduces rendered HTML to plain text suitable for a model
// prompt: scripts and styles removed, whitespace collapsed, and the result
// truncated to maxChars.
func CleanContent(html, pageURL string, maxChars int) string {
	text := stripDocument(html)

	if len(text) < minUsefulContent {
		if fallback := readabilityText(html, pageURL); len(fallback) > len(text) {
			text = fallback
		}
	}

	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if maxChars > 0 && len(text) > maxChars {
		// Back off to a rune boundary so the cut never leaves a partial
		// UTF-8 sequence at the end
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

// stripDocument parses the full document and returns its text with
// non-content elements removed.
func stripDocument(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()
	return doc.Text()
}

// readabilityText runs an article-style extraction over the document.
// Useful when the raw document text is dominated by chrome and nav.
func readabilityText(html, pageURL string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
