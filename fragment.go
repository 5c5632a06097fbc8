package ugmirror

import "context"

// FetchStatus describes the outcome of fetching one chapter's content.
type FetchStatus int

// Fetch outcomes. A fragment attached to a chapter always carries exactly one
// of these; a chapter without a fragment has not been attempted yet.
const (
	StatusFetched FetchStatus = iota // content retrieved successfully
	StatusMissing                    // remote explicitly has no content for this chapter
	StatusFailed                     // transport or decode failure, see Err
)

// String returns a human-readable form of the status.
func (s FetchStatus) String() string {
	switch s {
	case StatusFetched:
		return "fetched"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ContentFragment is the rendered content belonging to one chapter node.
type ContentFragment struct {
	// NodeID is the ID of the chapter this fragment belongs to.
	NodeID string

	// Status records the fetch outcome.
	Status FetchStatus

	// HTML is the raw content fragment; empty unless Status is StatusFetched.
	HTML string

	// Hash is an xxhash of HTML, used for change detection and stats.
	Hash string

	// Links maps in-content dynamic link IDs to their chapter targets, as
	// reported by the remote service alongside the fragment.
	Links map[string]string

	// Err is the failure cause; nil unless Status is StatusFailed.
	Err error
}

// FragmentFetcher retrieves the content fragment for a single chapter.
type FragmentFetcher interface {
	// FetchFragment issues one content request for the node. Failures are
	// captured in the returned fragment, never propagated: this is the
	// unit of partial failure isolation. Retry policy, if any, belongs to
	// the caller.
	FetchFragment(ctx context.Context, node *ChapterNode) *ContentFragment
}

// AssetFetcher retrieves static resources (images, fonts) referenced by
// content fragments.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, url string) ([]byte, error)
}

// HostLimiter provides per-host request rate limiting.
type HostLimiter interface {
	// Wait blocks until the rate limit allows a request to the host.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
