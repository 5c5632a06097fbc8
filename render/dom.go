package render

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gromk/ugmirror"
)

// Style and class fixups applied when moving the navigation tree around.
var (
	colWidthRe  = regexp.MustCompile(`col-md-[0-9]+`)
	stickyTopRe = regexp.MustCompile(`top:\s*[0-9]+px\s*;?`)
	overflowYRe = regexp.MustCompile(`overflow-y:\s*scroll\s*;?`)
	maxHeightRe = regexp.MustCompile(`max-height:\s*[0-9]+px\s*;?`)
)

// applyPolicies rewrites the assembled page so its markup matches the
// configured navigation behavior. The input markup is always rendered in
// sidebar/collapsed form; every other combination is derived from it here,
// keeping the template set small.
func applyPolicies(page string, cfg ugmirror.RenderConfig, links map[string]string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "parse rendered page")
	}

	applyTOCPosition(doc, cfg.TOCPosition)
	applyExtendMode(doc, cfg.ExtendMode)
	rewriteLinks(doc, cfg.ExtendMode, links)
	flattenPopovers(doc)

	out, err := doc.Html()
	if err != nil {
		return "", ugmirror.WrapErrorf(err, ugmirror.EINTERNAL, "serialize rendered page")
	}
	return out, nil
}

func applyTOCPosition(doc *goquery.Document, pos ugmirror.TOCPosition) {
	if pos == ugmirror.TOCSidebar {
		return
	}

	// Without a sidebar the content takes the full page width.
	replaceClass(doc.Find("#resultList"), colWidthRe, "col-md-12")

	switch pos {
	case ugmirror.TOCNone:
		doc.Find("#sideBar").AddClass("mobileSidebar")

	case ugmirror.TOCHeader:
		sidebar := doc.Find("#sideBar")
		replaceClass(sidebar, colWidthRe, "col-md-6")
		sidebar.RemoveClass("cssSticky")
		sidebar.AddClass("col-md-offset-3")
		replaceStyle(sidebar, stickyTopRe)

		// The header list grows with its contents instead of scrolling.
		replaceStyle(doc.Find("#contentTable"), overflowYRe)
		replaceStyle(doc.Find("#contentTable"), maxHeightRe)
		replaceStyle(doc.Find("#tabs_sidebar"), maxHeightRe)

		// First navigation level starts expanded.
		doc.Find("ul.tree > li.toc_entry > .contentTable__panel.w_children").AddClass("selected")
	}
}

func applyExtendMode(doc *goquery.Document, mode ugmirror.ExtendMode) {
	if mode != ugmirror.ExtendAll {
		return
	}
	// Everything visible from the start; headers stay inert because
	// manual.js installs no handlers in this mode.
	doc.Find(`div.tttitle[id^="title"], div.ttchildren`).AddClass("selected")
}

// rewriteLinks adapts in-page links to the offline document. In all mode
// plain anchors scroll the browser without scripting; in single and toggle
// modes links carry a data-goto attribute consumed by manual.js so the
// target section can be expanded before scrolling.
func rewriteLinks(doc *goquery.Document, mode ugmirror.ExtendMode, links map[string]string) {
	if mode != ugmirror.ExtendAll {
		doc.Find(`a[href^="#"]`).Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if len(href) > 1 {
				a.SetAttr("data-goto", href[1:])
				a.SetAttr("href", "#")
			}
		})
	}

	doc.Find("a.dynamic-link").Each(func(_ int, a *goquery.Selection) {
		id, _ := a.Attr("id")
		target := links[id]
		if mode == ugmirror.ExtendAll {
			if target != "" {
				a.SetAttr("href", "#"+target)
			} else {
				a.SetAttr("href", "#")
			}
		} else {
			a.SetAttr("href", "#")
			if target != "" {
				a.SetAttr("data-goto", target)
			}
		}
		a.RemoveAttr("checked-link")
		a.RemoveAttr("data-facets")
	})
}

// flattenPopovers strips markup from tooltip contents, which are injected
// into an attribute and must be plain text offline.
func flattenPopovers(doc *goquery.Document) {
	doc.Find(`span[data-toggle="popover"]`).Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("data-content")
		if !ok || content == "" {
			return
		}
		inner, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err != nil {
			return
		}
		s.SetAttr("data-content", inner.Text())
	})
}

func replaceClass(s *goquery.Selection, re *regexp.Regexp, with string) {
	class, _ := s.Attr("class")
	s.SetAttr("class", re.ReplaceAllString(class, with))
}

func replaceStyle(s *goquery.Selection, re *regexp.Regexp) {
	style, ok := s.Attr("style")
	if !ok {
		return
	}
	s.SetAttr("style", strings.TrimSpace(re.ReplaceAllString(style, "")))
}
