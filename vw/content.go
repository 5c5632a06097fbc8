package vw

import (
	"context"
	"fmt"
	"regexp"

	"github.com/cespare/xxhash/v2"
	"github.com/gromk/ugmirror"
)

// htmlEnvelope matches fragments the service wraps in a full html document.
var htmlEnvelope = regexp.MustCompile(`(?s)<html[^>]*>(.*)</html>`)

// FetchFragment retrieves one chapter's content fragment. Failures are
// captured in the fragment instead of propagating; a chapter without a
// content key is reported as missing, not failed.
func (c *Client) FetchFragment(ctx context.Context, node *ugmirror.ChapterNode) *ugmirror.ContentFragment {
	frag := &ugmirror.ContentFragment{NodeID: node.ID}

	if node.LinkTarget == "" {
		frag.Status = ugmirror.StatusMissing
		return frag
	}

	if err := c.ensureSession(ctx); err != nil {
		frag.Status = ugmirror.StatusFailed
		frag.Err = err
		return frag
	}

	var body struct {
		BodyHTML  string `json:"bodyHtml"`
		LinkState map[string]struct {
			Target *string `json:"target"`
		} `json:"linkState"`
	}
	if err := c.getJSON(ctx, c.topicURL(node.LinkTarget), &body); err != nil {
		frag.Status = ugmirror.StatusFailed
		frag.Err = err
		return frag
	}

	if body.BodyHTML == "" {
		frag.Status = ugmirror.StatusMissing
		return frag
	}

	html := body.BodyHTML
	if m := htmlEnvelope.FindStringSubmatch(html); m != nil {
		html = m[1]
	}

	frag.Status = ugmirror.StatusFetched
	frag.HTML = html
	frag.Hash = contentHash(html)
	if len(body.LinkState) > 0 {
		frag.Links = make(map[string]string, len(body.LinkState))
		for id, link := range body.LinkState {
			if link.Target != nil {
				frag.Links[id] = *link.Target
			}
		}
	}
	return frag
}

// contentHash computes a hash of the fragment content using xxhash.
func contentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
