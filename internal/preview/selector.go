package preview

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// attributeMatcher compiles tag[key='value'] (exact, case-sensitive value
// match). Selector tokens are fixed by the resolver, so a selector that fails
// to compile panics.
func attributeMatcher(tag, key, value string) cascadia.Selector {
	return cascadia.MustCompile(fmt.Sprintf("%s[%s='%s']", tag, key, value))
}

// tagMatcher compiles a bare tag selector, panicking on malformed input.
func tagMatcher(tag string) cascadia.Selector {
	return cascadia.MustCompile(tag)
}

// selectFirst returns the first element in document order matched by m, or nil.
func selectFirst(doc *goquery.Document, m goquery.Matcher) *goquery.Selection {
	s := doc.FindMatcher(m)
	if s.Length() == 0 {
		return nil
	}
	return s.First()
}

// selectByAttribute returns the first tag element whose key attribute equals
// value exactly, or nil.
func selectByAttribute(doc *goquery.Document, tag, key, value string) *goquery.Selection {
	return selectFirst(doc, attributeMatcher(tag, key, value))
}

// selectByTag returns the first element named tag, or nil.
func selectByTag(doc *goquery.Document, tag string) *goquery.Selection {
	return selectFirst(doc, tagMatcher(tag))
}
