package preview

import (
	"github.com/PuerkitoBio/goquery"
)

// attempt is one step of a field's fallback chain.
type attempt func(doc *goquery.Document) (string, bool)

// attrContent reads the content attribute of the first tag[key='value'].
// The selector is compiled when the chain is built, so a malformed token
// fails at package init.
func attrContent(tag, key, value string) attempt {
	m := attributeMatcher(tag, key, value)
	return func(doc *goquery.Document) (string, bool) {
		s := selectFirst(doc, m)
		if s == nil {
			return "", false
		}
		return present(s.Attr("content"))
	}
}

// elementText reads the inner text of the first element named tag.
func elementText(tag string) attempt {
	m := tagMatcher(tag)
	return func(doc *goquery.Document) (string, bool) {
		s := selectFirst(doc, m)
		if s == nil {
			return "", false
		}
		return present(s.Text(), true)
	}
}

// present drops empty values so they fall through to the next attempt.
// Anything else, whitespace included, is returned verbatim.
func present(v string, ok bool) (string, bool) {
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

var (
	descriptionChain = []attempt{
		attrContent("meta", "property", "og:description"),
		attrContent("meta", "name", "description"),
	}
	titleChain = []attempt{
		attrContent("meta", "property", "og:title"),
		attrContent("meta", "name", "title"),
		elementText("title"),
	}
	siteNameChain = []attempt{
		attrContent("meta", "property", "og:site_name"),
		attrContent("meta", "name", "title"),
		elementText("title"),
	}
	imageChain = []attempt{
		attrContent("meta", "property", "og:image"),
		attrContent("link", "rel", "image_src"),
	}
	urlChain = []attempt{
		attrContent("meta", "property", "og:url"),
		attrContent("link", "rel", "canonical"),
	}
)

// resolve runs the chain in order and returns the first value found.
func resolve(doc *goquery.Document, chain []attempt) *string {
	for _, try := range chain {
		if v, ok := try(doc); ok {
			return &v
		}
	}
	return nil
}

func resolveDescription(doc *goquery.Document) *string { return resolve(doc, descriptionChain) }

func resolveTitle(doc *goquery.Document) *string { return resolve(doc, titleChain) }

func resolveSiteName(doc *goquery.Document) *string { return resolve(doc, siteNameChain) }

func resolveImage(doc *goquery.Document) *string { return resolve(doc, imageChain) }

// resolveURL never returns nil: without og:url or a canonical link the
// source URL is used.
func resolveURL(doc *goquery.Document, source string) *string {
	if v := resolve(doc, urlChain); v != nil {
		return v
	}
	return &source
}
