package render

import (
	"html"
	"strings"

	"github.com/gromk/ugmirror"
)

// Fallback chrome labels used when the remote strings table is unavailable.
const (
	fallbackTOCTitle   = "Contents"
	fallbackOpenOnline = "Open online"
)

var _ ugmirror.Renderer = (*Renderer)(nil)

// Renderer renders manual documents with a fixed template set.
type Renderer struct {
	templates Templates
}

// NewRenderer creates a Renderer using the embedded default templates.
func NewRenderer() (*Renderer, error) {
	t, err := DefaultTemplates()
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// NewRendererWithTemplates creates a Renderer with a caller-supplied
// template set.
func NewRendererWithTemplates(t Templates) *Renderer {
	return &Renderer{templates: t}
}

// Render produces the manual's output pages: index.html, the static chrome
// resources, and any assets attached to the document. Identical (document,
// config) inputs yield byte-identical pages.
func (r *Renderer) Render(doc *ugmirror.ManualDocument, cfg ugmirror.RenderConfig) ([]ugmirror.Page, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc.Tree == nil || doc.Tree.Len() == 0 {
		return nil, ugmirror.Errorf(ugmirror.EINVALID, "document has no chapter tree")
	}

	var body, toc strings.Builder
	links := map[string]string{}
	root := doc.Tree.Node(ugmirror.RootNodeIndex)
	for _, child := range root.Children {
		b, c := r.buildTopic(doc, cfg, child, 0, links)
		body.WriteString(b)
		toc.WriteString(c)
	}

	page := replaceAll(r.templates.Index, map[string]string{
		"LANG_CODE":         html.EscapeString(doc.Vehicle.Language),
		"VEHICLE_MODEL":     html.EscapeString(doc.Tree.Model),
		"VEHICLE_VIN":       html.EscapeString(doc.Vehicle.Identifier),
		"TOC_TITLE":         html.EscapeString(label(doc, "tab.directory", fallbackTOCTitle)),
		"TOC_CONTENT":       toc.String(),
		"USERGUIDE_ID":      html.EscapeString(root.ID),
		"USERGUIDE_TITLE":   html.EscapeString(doc.Title),
		"USERGUIDE_DATE":    html.EscapeString(doc.Tree.Variant),
		"USERGUIDE_CONTENT": body.String(),
		"OPEN_ONLINE":       html.EscapeString(label(doc, "label.open.web", fallbackOpenOnline)),
		"EXTEND_MODE":       string(cfg.ExtendMode),
	})

	page, err := applyPolicies(page, cfg, links)
	if err != nil {
		return nil, err
	}

	pages := []ugmirror.Page{{Path: "index.html", Data: []byte(page)}}
	static, err := staticPages()
	if err != nil {
		return nil, err
	}
	pages = append(pages, static...)
	for _, asset := range doc.Assets {
		pages = append(pages, ugmirror.Page{Path: asset.Path, Data: asset.Data})
	}
	return pages, nil
}

// buildTopic renders one chapter subtree into body and TOC markup, collecting
// dynamic-link targets along the way. Level counts from 0 at the chapters
// directly under the root.
func (r *Renderer) buildTopic(doc *ugmirror.ManualDocument, cfg ugmirror.RenderConfig, idx, level int, links map[string]string) (body, toc string) {
	node := doc.Tree.Node(idx)
	frag := doc.Fragment(node.ID)
	for id, target := range fragmentLinks(frag) {
		links[id] = target
	}

	repl := map[string]string{
		"TOPIC_ID":      html.EscapeString(node.ID),
		"TOPIC_TITLE":   html.EscapeString(node.Title),
		"TOPIC_LINK":    html.EscapeString(node.LinkTarget),
		"TOPIC_CONTENT": fragmentContent(node, frag),
	}

	if len(node.Children) == 0 {
		return replaceAll(r.templates.TopicLeaf, repl), replaceAll(r.templates.TOCLeaf, repl)
	}

	// Structural parents have no content of their own; their children are
	// the content, so no placeholder is shown above them.
	if frag == nil || frag.Status == ugmirror.StatusMissing {
		repl["TOPIC_CONTENT"] = ""
	}

	var childBody, childTOC strings.Builder
	for _, child := range node.Children {
		b, c := r.buildTopic(doc, cfg, child, level+1, links)
		childBody.WriteString(b)
		childTOC.WriteString(c)
	}
	repl["TOPIC_CHILDREN"] = childBody.String()
	repl["TOC_CHILDREN"] = childTOC.String()

	body = replaceAll(r.templates.TopicWithChildren, repl)

	// In header mode the navigation list stops after two levels: chapters
	// below the first level render without their nested list.
	if cfg.TOCPosition == ugmirror.TOCHeader && level > 0 {
		toc = replaceAll(r.templates.TOCLeaf, repl)
	} else {
		toc = replaceAll(r.templates.TOCWithChildren, repl)
	}
	return body, toc
}

// fragmentContent returns the chapter's content markup, or a visibly
// distinct placeholder when the fragment is missing or failed. Absent
// sections are never silently omitted.
func fragmentContent(node *ugmirror.ChapterNode, frag *ugmirror.ContentFragment) string {
	switch {
	case frag == nil:
		return placeholder("missing", node.Title, "This section was not downloaded.")
	case frag.Status == ugmirror.StatusFetched:
		return frag.HTML
	case frag.Status == ugmirror.StatusFailed:
		return placeholder("failed", node.Title, "This section could not be downloaded. Re-run to retry.")
	default:
		return placeholder("missing", node.Title, "This section has no content.")
	}
}

func placeholder(kind, title, message string) string {
	var b strings.Builder
	b.WriteString(`<div class="fragment-placeholder fragment-`)
	b.WriteString(kind)
	b.WriteString(`"><strong>`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</strong>: `)
	b.WriteString(message)
	b.WriteString(`</div>`)
	return b.String()
}

func fragmentLinks(frag *ugmirror.ContentFragment) map[string]string {
	if frag == nil {
		return nil
	}
	return frag.Links
}

func label(doc *ugmirror.ManualDocument, key, fallback string) string {
	if v, ok := doc.Strings[key]; ok && v != "" {
		return v
	}
	return fallback
}
