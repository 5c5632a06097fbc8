package ugmirror

import "context"

// ExtendMode controls the expand/collapse behavior of the rendered manual.
type ExtendMode string

// Extend modes.
const (
	// ExtendSingle keeps exactly one chapter open: activating a chapter
	// collapses any other open one (single-open accordion).
	ExtendSingle ExtendMode = "single"

	// ExtendToggle lets every chapter expand and collapse independently.
	ExtendToggle ExtendMode = "toggle"

	// ExtendAll renders every chapter pre-expanded with inert headers.
	ExtendAll ExtendMode = "all"
)

// ParseExtendMode parses a user-supplied extend mode.
func ParseExtendMode(s string) (ExtendMode, error) {
	switch ExtendMode(s) {
	case ExtendSingle, ExtendToggle, ExtendAll:
		return ExtendMode(s), nil
	}
	return "", Errorf(EINVALID, "invalid extend mode %q (want single, toggle or all)", s)
}

// TOCPosition controls where the table of contents is rendered.
type TOCPosition string

// TOC positions.
const (
	// TOCSidebar renders a viewport-fixed navigation tree beside the
	// content, all nodes initially collapsed.
	TOCSidebar TOCPosition = "sidebar"

	// TOCHeader renders a two-level navigation list above the content,
	// initially expanded; content takes the full page width.
	TOCHeader TOCPosition = "header"

	// TOCNone omits the navigation tree entirely.
	TOCNone TOCPosition = "none"
)

// ParseTOCPosition parses a user-supplied TOC position.
func ParseTOCPosition(s string) (TOCPosition, error) {
	switch TOCPosition(s) {
	case TOCSidebar, TOCHeader, TOCNone:
		return TOCPosition(s), nil
	}
	return "", Errorf(EINVALID, "invalid toc position %q (want sidebar, header or none)", s)
}

// RenderConfig is the run configuration consumed by the crawler
// (CrashOnError) and the renderer (ExtendMode, TOCPosition). Immutable for
// the run.
type RenderConfig struct {
	ExtendMode  ExtendMode
	TOCPosition TOCPosition

	// CrashOnError aborts the whole crawl on the first chapter fetch
	// failure instead of rendering a placeholder.
	CrashOnError bool
}

// Validate returns an error if the configuration contains invalid fields.
func (c RenderConfig) Validate() error {
	if _, err := ParseExtendMode(string(c.ExtendMode)); err != nil {
		return err
	}
	if _, err := ParseTOCPosition(string(c.TOCPosition)); err != nil {
		return err
	}
	return nil
}

// Page is one output file of the rendered manual, at a path relative to the
// manual's output folder.
type Page struct {
	Path string
	Data []byte
}

// Renderer transforms a populated document plus configuration into output
// pages. Rendering is pure: identical inputs yield identical pages.
type Renderer interface {
	Render(doc *ManualDocument, cfg RenderConfig) ([]Page, error)
}

// PageStore persists rendered pages with atomic replace semantics.
// Save writes to a temporary location; Commit replaces the destination in
// full, removing any stale files from a prior run; Abort discards pending
// writes and leaves the destination untouched.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}
