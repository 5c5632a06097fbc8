// Package ugmirror mirrors a remote, tree-structured vehicle user guide into
// a self-contained offline HTML document. It resolves the guide's chapter
// hierarchy from the manufacturer's service, crawls every chapter's content
// fragment with per-chapter failure isolation, and renders the populated tree
// into a browsable artifact whose navigation behavior is configurable.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or boundary (e.g., vw/, fs/, slog/).
package ugmirror
