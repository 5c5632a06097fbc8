package crawl

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gromk/ugmirror"
	"github.com/gromk/ugmirror/bloom"
)

// Bloom sizing for the asset dedupe set.
const (
	assetExpectedURLs      = 10000
	assetFalsePositiveRate = 0.01
)

// collectAssets downloads the images referenced by fetched fragments and
// rewrites their sources to local img/ paths. The same image is referenced by
// many chapters, so URLs are deduplicated before download. Asset failures
// never fail the crawl; a failed image keeps its remote URL so a rerun can
// retry it.
func (c *Crawler) collectAssets(ctx context.Context, tree *ugmirror.ChapterTree, fragments map[string]*ugmirror.ContentFragment) []ugmirror.Asset {
	state := &assetState{
		attempted:  bloom.NewFilter(assetExpectedURLs, assetFalsePositiveRate),
		downloaded: make(map[string]string),
	}
	var assets []ugmirror.Asset

	// Preorder keeps asset ordering deterministic across runs.
	tree.Walk(func(idx int, node *ugmirror.ChapterNode, depth int) {
		frag := fragments[node.ID]
		if frag == nil || frag.Status != ugmirror.StatusFetched {
			return
		}
		assets = c.rewriteFragmentImages(ctx, frag, state, assets)
	})
	return assets
}

// assetState tracks the asset pass across fragments. The bloom filter gates
// download attempts; rewrite decisions come only from the exact downloaded
// map, so a false positive leaves an image on its remote URL instead of
// pointing it at a file that was never written.
type assetState struct {
	attempted  *bloom.Filter
	downloaded map[string]string
}

// rewriteFragmentImages downloads every lazily-loaded image of one fragment
// and points its src at the local copy.
func (c *Crawler) rewriteFragmentImages(ctx context.Context, frag *ugmirror.ContentFragment, state *assetState, assets []ugmirror.Asset) []ugmirror.Asset {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(frag.HTML))
	if err != nil {
		return assets
	}

	changed := false
	doc.Find("img[data-src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("data-src")
		local := localAssetPath(src)
		if local == "" {
			return
		}

		if path, ok := state.downloaded[src]; ok {
			// Already downloaded for an earlier chapter.
			img.SetAttr("src", path)
			changed = true
			return
		}
		if !state.attempted.AddIfNew(src) {
			// Attempted before without a recorded download, or a filter
			// false positive. Either way the image stays remote.
			return
		}

		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx, c.Host); err != nil {
				return
			}
		}
		data, err := c.Assets.FetchAsset(ctx, src)
		if err != nil {
			return
		}

		assets = append(assets, ugmirror.Asset{Path: local, Data: data})
		state.downloaded[src] = local
		img.SetAttr("src", local)
		changed = true
	})

	if changed {
		if html, err := doc.Find("body").Html(); err == nil {
			frag.HTML = html
		}
	}
	return assets
}

// localAssetPath maps a remote image URL to its path inside the manual
// folder. Media URLs carry the stable identifier in their key parameter;
// anything else falls back to the URL's base name.
func localAssetPath(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if i := strings.Index(rawURL, "key="); i != -1 {
		return "img/" + rawURL[i+len("key="):]
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	return "img/" + path.Base(u.Path)
}
