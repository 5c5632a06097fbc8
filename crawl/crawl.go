// Package crawl orchestrates the manual crawl: it walks a resolved chapter
// tree, fetches every chapter's content fragment exactly once, applies the
// configured failure policy, and assembles the populated ManualDocument.
package crawl

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gromk/ugmirror"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the fetch worker limit when none is configured.
const DefaultConcurrency = 5

// Crawler drives the crawl of one manual.
type Crawler struct {
	// Contents fetches chapter fragments. Required.
	Contents ugmirror.FragmentFetcher

	// Assets downloads resources referenced by fragments. Optional; when
	// nil the asset pass is skipped and fragments keep their remote URLs.
	Assets ugmirror.AssetFetcher

	// Limiter throttles requests per host. Optional.
	Limiter ugmirror.HostLimiter

	// Host is the rate-limit key used with Limiter.
	Host string

	// Concurrency bounds parallel fragment fetches.
	Concurrency int

	// RetryDelays configures fetch retry backoff. Retry policy lives here,
	// not in the fetcher. Defaults to DefaultRetryDelays.
	RetryDelays []time.Duration
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Chapter   string
	Err       error
}

// ProgressFunc is a callback for reporting crawl progress. It is always
// invoked from the coordinating goroutine, never concurrently.
type ProgressFunc func(event ProgressEvent)

// fetchResult pairs a fragment with its node's arena index.
type fetchResult struct {
	idx  int
	frag *ugmirror.ContentFragment
}

// Crawl fetches every chapter of the tree and returns the populated document.
//
// With cfg.CrashOnError set, the first failed fragment aborts the whole crawl
// with EABORTED and cancels in-flight fetches; no document is returned.
// Otherwise failures are absorbed into the fragments and the document is
// intentionally incomplete but renderable. On success every non-root node
// carries exactly one fragment.
func (c *Crawler) Crawl(ctx context.Context, tree *ugmirror.ChapterTree, vehicle ugmirror.VehicleRef, cfg ugmirror.RenderConfig, progress ProgressFunc) (*ugmirror.ManualDocument, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Depth-first preorder keeps output deterministic; beyond that, fetch
	// order carries no meaning.
	var nodes []int
	tree.Walk(func(idx int, node *ugmirror.ChapterNode, depth int) {
		if idx != ugmirror.RootNodeIndex {
			nodes = append(nodes, idx)
		}
	})
	total := len(nodes)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan fetchResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var waitErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, idx := range nodes {
			g.Go(func() error {
				node := tree.Node(idx)
				frag := c.fetchNode(gctx, node)
				select {
				case resultCh <- fetchResult{idx: idx, frag: frag}:
				case <-gctx.Done():
					return gctx.Err()
				}
				if cfg.CrashOnError && frag.Status == ugmirror.StatusFailed {
					return ugmirror.WrapErrorf(frag.Err, ugmirror.EABORTED,
						"crawl aborted at chapter %q", node.Title)
				}
				return nil
			})
		}
		waitErr = g.Wait()
		close(resultCh)
	}()

	// Each fragment slot is written here, by exactly one result.
	fragments := make(map[string]*ugmirror.ContentFragment, total)
	completed := 0
	for res := range resultCh {
		completed++
		fragments[res.frag.NodeID] = res.frag

		if progress != nil {
			node := tree.Node(res.idx)
			if res.frag.Status == ugmirror.StatusFailed {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: completed,
					Total:     total,
					Chapter:   node.Title,
					Err:       res.frag.Err,
				})
			} else {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: completed,
					Total:     total,
					Chapter:   node.Title,
				})
			}
		}
	}
	<-done

	if waitErr != nil {
		return nil, waitErr
	}

	// Invariant: none unattempted, none duplicated.
	for _, idx := range nodes {
		if fragments[tree.Node(idx).ID] == nil {
			return nil, ugmirror.Errorf(ugmirror.EINTERNAL,
				"chapter %q has no fragment after crawl", tree.Node(idx).Title)
		}
	}

	doc := &ugmirror.ManualDocument{
		ID:          uuid.NewString(),
		Title:       tree.Title,
		Vehicle:     vehicle,
		GeneratedAt: time.Now().UTC(),
		Tree:        tree,
		Fragments:   fragments,
	}

	if c.Assets != nil {
		doc.Assets = c.collectAssets(ctx, tree, fragments)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return doc, nil
}

// fetchNode fetches one chapter's fragment, applying rate limiting and the
// crawler's retry policy.
func (c *Crawler) fetchNode(ctx context.Context, node *ugmirror.ChapterNode) *ugmirror.ContentFragment {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, c.Host); err != nil {
			return &ugmirror.ContentFragment{
				NodeID: node.ID,
				Status: ugmirror.StatusFailed,
				Err:    err,
			}
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchFragmentWithRetry(ctx, node, c.Contents.FetchFragment, delays)
}
