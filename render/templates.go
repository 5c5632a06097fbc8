// Package render transforms a populated manual document into the final
// offline pages. Rendering is a pure function of (document, config): the
// chapter tree is expanded through mustache-style string templates and the
// resulting markup is post-processed with goquery to apply the configured
// navigation policies.
package render

import (
	"embed"
	"regexp"

	"github.com/gromk/ugmirror"
)

//go:embed templates assets
var resources embed.FS

// Templates holds the page template resources. Placeholders use the
// {{NAME}} form.
type Templates struct {
	// Index is the outer page shell.
	Index string

	// TopicWithChildren renders a chapter that owns sub-chapters.
	TopicWithChildren string

	// TopicLeaf renders a chapter without sub-chapters.
	TopicLeaf string

	// TOCWithChildren renders a navigation entry with a nested list.
	TOCWithChildren string

	// TOCLeaf renders a navigation entry without children.
	TOCLeaf string
}

// DefaultTemplates loads the embedded template set.
func DefaultTemplates() (Templates, error) {
	var t Templates
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"index.html", &t.Index},
		{"topic_w_children.html", &t.TopicWithChildren},
		{"topic_wo_children.html", &t.TopicLeaf},
		{"toc_w_children.html", &t.TOCWithChildren},
		{"toc_wo_children.html", &t.TOCLeaf},
	} {
		data, err := resources.ReadFile("templates/" + f.name)
		if err != nil {
			return Templates{}, ugmirror.WrapErrorf(err, ugmirror.EINTERNAL,
				"load template %s", f.name)
		}
		*f.dst = string(data)
	}
	return t, nil
}

var placeholderRe = regexp.MustCompile(`\{\{[A-Z_]+\}\}`)

// replaceAll substitutes every {{KEY}} placeholder with its value in a single
// left-to-right pass. Substituted values are never rescanned, so fragment
// content that happens to contain placeholder-shaped tokens passes through
// verbatim and the expansion is deterministic.
func replaceAll(tmpl string, repl map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := repl[m[2:len(m)-2]]; ok {
			return v
		}
		return m
	})
}

// staticPages returns the style, script and logo resources every manual
// ships with.
func staticPages() ([]ugmirror.Page, error) {
	var pages []ugmirror.Page
	for _, f := range []struct {
		src string
		dst string
	}{
		{"assets/main.css", "main.css"},
		{"assets/print.css", "print.css"},
		{"assets/manual.js", "manual.js"},
		{"assets/logo.svg", "img/logo.svg"},
	} {
		data, err := resources.ReadFile(f.src)
		if err != nil {
			return nil, ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "load asset %s", f.src)
		}
		pages = append(pages, ugmirror.Page{Path: f.dst, Data: data})
	}
	return pages, nil
}
