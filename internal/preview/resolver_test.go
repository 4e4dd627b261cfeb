package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want *string
	}{
		{
			name: "og title wins over everything",
			html: `<head><title>T</title><meta name="title" content="M"><meta property="og:title" content="OG"></head>`,
			want: ptr("OG"),
		},
		{
			name: "meta title before title element",
			html: `<head><title>T</title><meta name="title" content="M"></head>`,
			want: ptr("M"),
		},
		{
			name: "title element last",
			html: `<head><title>T</title></head>`,
			want: ptr("T"),
		},
		{
			name: "og title without content falls through",
			html: `<head><meta property="og:title"><title>T</title></head>`,
			want: ptr("T"),
		},
		{
			name: "empty content falls through",
			html: `<head><meta property="og:title" content=""><meta name="title" content="M"></head>`,
			want: ptr("M"),
		},
		{
			name: "whitespace content is kept verbatim",
			html: `<head><meta property="og:title" content=" "><meta name="title" content="M"></head>`,
			want: ptr(" "),
		},
		{
			name: "title text is not trimmed",
			html: "<head><title>\n  Spaced  \n</title></head>",
			want: ptr("\n  Spaced  \n"),
		},
		{
			name: "empty title element is absent",
			html: `<head><title></title></head>`,
			want: nil,
		},
		{
			name: "nothing",
			html: `<head><meta name="description" content="d"></head>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveTitle(mustDoc(t, tt.html))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDescription(t *testing.T) {
	doc := mustDoc(t, `<head><meta name="description" content="B"><meta property="og:description" content="A"></head>`)
	assert.Equal(t, ptr("A"), resolveDescription(doc))

	doc = mustDoc(t, `<head><meta name="description" content="B"></head>`)
	assert.Equal(t, ptr("B"), resolveDescription(doc))

	doc = mustDoc(t, `<head><meta property="og:description"><title>ignored</title></head>`)
	assert.Nil(t, resolveDescription(doc))
}

func TestResolveSiteName(t *testing.T) {
	doc := mustDoc(t, `<head><meta property="og:site_name" content="Site"><meta name="title" content="M"></head>`)
	assert.Equal(t, ptr("Site"), resolveSiteName(doc))

	doc = mustDoc(t, `<head><meta name="title" content="M"><title>T</title></head>`)
	assert.Equal(t, ptr("M"), resolveSiteName(doc))

	doc = mustDoc(t, `<head><title>T</title></head>`)
	assert.Equal(t, ptr("T"), resolveSiteName(doc))

	assert.Nil(t, resolveSiteName(mustDoc(t, `<p>x</p>`)))
}

func TestResolveImage(t *testing.T) {
	doc := mustDoc(t, `<head><link rel="image_src" content="/b.png"><meta property="og:image" content="/a.png"></head>`)
	assert.Equal(t, ptr("/a.png"), resolveImage(doc))

	doc = mustDoc(t, `<head><link rel="image_src" content="/b.png"></head>`)
	assert.Equal(t, ptr("/b.png"), resolveImage(doc))

	// link elements usually carry href, which is not read.
	doc = mustDoc(t, `<head><link rel="image_src" href="/c.png"></head>`)
	assert.Nil(t, resolveImage(doc))
}

func TestResolveURL(t *testing.T) {
	const source = "http://x.test/page"

	doc := mustDoc(t, `<head><link rel="canonical" content="https://canon.example/"><meta property="og:url" content="https://og.example/"></head>`)
	assert.Equal(t, ptr("https://og.example/"), resolveURL(doc, source))

	doc = mustDoc(t, `<head><link rel="canonical" content="https://canon.example/"></head>`)
	assert.Equal(t, ptr("https://canon.example/"), resolveURL(doc, source))

	doc = mustDoc(t, `<head><link rel="canonical" href="https://canon.example/"></head>`)
	got := resolveURL(doc, source)
	require.NotNil(t, got)
	assert.Equal(t, source, *got)
}

func TestAttemptsCompileSelectorsUpFront(t *testing.T) {
	assert.Panics(t, func() { attrContent("meta[", "property", "og:title") })
	assert.Panics(t, func() { elementText("title[") })
	assert.NotPanics(t, func() { attrContent("link", "rel", "canonical") })
}

func ptr(s string) *string { return &s }
