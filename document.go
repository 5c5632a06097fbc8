package ugmirror

import "time"

// Asset is a static resource (image, font, stylesheet) referenced by the
// rendered manual, stored at a path relative to the manual's output folder.
type Asset struct {
	Path string
	Data []byte
}

// ManualDocument is the fully populated manual: the chapter tree plus one
// content fragment per chapter, and manual-level metadata. It is constructed
// once per run by the crawler, consumed once by the renderer, then discarded.
type ManualDocument struct {
	// ID identifies this crawl run.
	ID string

	// Title is the manual's display title.
	Title string

	// Vehicle is the reference the manual was resolved for.
	Vehicle VehicleRef

	// GeneratedAt is when the crawl completed.
	GeneratedAt time.Time

	// Strings holds localized UI labels scraped from the remote service
	// (table-of-contents title, "open online" label, ...).
	Strings map[string]string

	// Tree is the resolved chapter skeleton.
	Tree *ChapterTree

	// Fragments maps chapter IDs to their fetched content. Every non-root
	// node of Tree has exactly one entry after a successful crawl.
	Fragments map[string]*ContentFragment

	// Assets are downloaded resources referenced by the fragments.
	Assets []Asset
}

// Fragment returns the fragment attached to a chapter, or nil if the chapter
// has not been attempted.
func (d *ManualDocument) Fragment(nodeID string) *ContentFragment {
	return d.Fragments[nodeID]
}

// DocumentStats summarizes fetch outcomes across the document. Duplicates
// counts fetched chapters whose content hash matches an earlier chapter;
// the remote service serves some shared boilerplate sections under several
// tree positions.
type DocumentStats struct {
	Fetched    int
	Missing    int
	Failed     int
	Duplicates int
	Bytes      int
}

// Stats tallies fragment outcomes.
func (d *ManualDocument) Stats() DocumentStats {
	var s DocumentStats
	seen := make(map[string]bool)
	for _, f := range d.Fragments {
		switch f.Status {
		case StatusFetched:
			s.Fetched++
			s.Bytes += len(f.HTML)
			if f.Hash != "" {
				if seen[f.Hash] {
					s.Duplicates++
				}
				seen[f.Hash] = true
			}
		case StatusMissing:
			s.Missing++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
