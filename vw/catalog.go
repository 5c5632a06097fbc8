package vw

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gromk/ugmirror"
)

// searchPageSize bounds the manual listing; vehicles carry a handful of
// manuals at most.
const searchPageSize = 20

// ListManuals returns the manuals available for the vehicle.
func (c *Client) ListManuals(ctx context.Context) ([]ugmirror.ManualInfo, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	q := url.Values{
		"query":        {""},
		"facetfilters": {"topic-type_|_welcome"},
		"lang":         {c.ref.Language},
		"page":         {"0"},
		"pageSize":     {strconv.Itoa(searchPageSize)},
	}
	var body struct {
		Results []ugmirror.ManualInfo `json:"results"`
	}
	if err := c.getJSON(ctx, c.apiURL("/api/web/V6/search")+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}

	if len(body.Results) == 0 {
		return nil, ugmirror.Errorf(ugmirror.ENOTFOUND,
			"no manual found for %s, try another vehicle id", c.ref.Identifier)
	}
	return body.Results, nil
}

// topicNode is the catalog's recursive chapter shape.
type topicNode struct {
	NodeID     string      `json:"nodeId"`
	Label      string      `json:"label"`
	LinkTarget string      `json:"linkTarget"`
	Children   []topicNode `json:"children"`
}

// Resolve retrieves and validates the manual's chapter tree. A catalog that
// cannot be parsed into a tree is fatal for the run, so Resolve is never
// retried here.
func (c *Client) Resolve(ctx context.Context, manual ugmirror.ManualInfo) (*ugmirror.ChapterTree, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	if manual.TopicID == "" {
		return nil, ugmirror.Errorf(ugmirror.EINVALID, "manual topic id required")
	}

	var body struct {
		Trees []struct {
			Children []topicNode `json:"children"`
		} `json:"trees"`
		AbstractText string `json:"abstractText"`
	}
	if err := c.getJSON(ctx, c.topicURL(manual.TopicID), &body); err != nil {
		return nil, err
	}

	if len(body.Trees) == 0 {
		return nil, ugmirror.Errorf(ugmirror.EMALFORMED,
			"catalog for %q contains no chapter tree", manual.Title)
	}

	tree := ugmirror.NewChapterTree(manual.TopicID, manual.Title)
	for _, child := range body.Trees[0].Children {
		if err := addTopics(tree, ugmirror.RootNodeIndex, child); err != nil {
			return nil, err
		}
	}

	tree.Model, tree.Variant = parseAbstract(body.AbstractText)
	return tree, nil
}

// addTopics copies one catalog subtree into the arena.
func addTopics(tree *ugmirror.ChapterTree, parent int, topic topicNode) error {
	idx, err := tree.AddNode(parent, topic.NodeID, topic.Label, topic.LinkTarget)
	if err != nil {
		return err
	}
	for _, child := range topic.Children {
		if err := addTopics(tree, idx, child); err != nil {
			return err
		}
	}
	return nil
}

// parseAbstract extracts the vehicle model and variant labels from the
// manual's abstract markup. Both are cosmetic; absence is tolerated.
func parseAbstract(abstract string) (model, variant string) {
	if abstract == "" {
		return "", ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(abstract))
	if err != nil {
		return "", ""
	}
	model = strings.TrimSpace(doc.Find(`span[data-class="vw-modell-bez"]`).First().Text())
	variant = strings.TrimSpace(doc.Find(`span[data-class="vw-modell-variante"]`).First().Text())
	return model, variant
}

// topicURL builds the topic endpoint URL for a content key.
func (c *Client) topicURL(key string) string {
	q := url.Values{
		"key":         {key},
		"displaytype": {"topic"},
		"language":    {c.ref.Language},
		"query":       {"undefined"},
	}
	return c.apiURL("/api/web/V6/topic") + "?" + q.Encode()
}

// decodeJSON decodes a response body, mapping failures to EMALFORMED so that
// unexpected response shapes fail cleanly instead of crashing the run.
func decodeJSON(r io.Reader, rawURL string, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return ugmirror.WrapErrorf(err, ugmirror.EMALFORMED, "decode response from %s", rawURL)
	}
	return nil
}
