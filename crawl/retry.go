package crawl

import (
	"context"
	"time"

	"github.com/gromk/ugmirror"
)

// FragmentFunc is the signature of a single fragment fetch attempt.
type FragmentFunc func(ctx context.Context, node *ugmirror.ChapterNode) *ugmirror.ContentFragment

// DefaultRetryDelays returns the backoff delays for fragment retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchFragmentWithRetry fetches a chapter's fragment, retrying failed
// attempts with the given backoff delays. Fetched and Missing outcomes are
// final; only Failed fragments are retried. The last fragment is returned
// when all attempts fail. Malformed responses are not retried: the remote
// will not start speaking a different dialect between attempts.
func FetchFragmentWithRetry(ctx context.Context, node *ugmirror.ChapterNode, fetch FragmentFunc, delays []time.Duration) *ugmirror.ContentFragment {
	maxAttempts := len(delays) + 1

	var frag *ugmirror.ContentFragment
	for attempt := 0; attempt < maxAttempts; attempt++ {
		frag = fetch(ctx, node)
		if frag.Status != ugmirror.StatusFailed {
			return frag
		}
		if ugmirror.ErrorCode(frag.Err) == ugmirror.EMALFORMED {
			return frag
		}
		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return frag
		case <-time.After(delays[attempt]):
		}
	}
	return frag
}
